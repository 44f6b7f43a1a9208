package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProxyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"READINGPROXY_UPSTREAM_URL",
		"READINGPROXY_API_KEY",
		"READINGPROXY_PLAN",
		"READINGPROXY_FETCH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestProfileDefaults(t *testing.T) {
	clearProxyEnv(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "https://api.dailyreading.io/v1/reading", p.UpstreamURL)
	assert.Equal(t, "oycb", p.Plan)
	assert.Equal(t, DefaultFetchTimeout, p.FetchTimeout)
	assert.Empty(t, p.APIKey)
}

func TestProfileFromEnv(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("READINGPROXY_UPSTREAM_URL", "http://upstream.local/reading")
	t.Setenv("READINGPROXY_API_KEY", "abc123")
	t.Setenv("READINGPROXY_PLAN", "custom-plan")
	t.Setenv("READINGPROXY_FETCH_TIMEOUT", "5s")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "http://upstream.local/reading", p.UpstreamURL)
	assert.Equal(t, "abc123", p.APIKey)
	assert.Equal(t, "custom-plan", p.Plan)
	assert.Equal(t, 5*time.Second, p.FetchTimeout)
}

func TestProfileFromEnvBadTimeout(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("READINGPROXY_FETCH_TIMEOUT", "not-a-duration")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, DefaultFetchTimeout, p.FetchTimeout)
}

func TestProfileValidate(t *testing.T) {
	valid := func() *Profile {
		return &Profile{
			Mode:         "dev",
			Port:         8080,
			UpstreamURL:  "http://upstream.local/reading",
			APIKey:       "abc123",
			Plan:         "oycb",
			FetchTimeout: time.Second,
		}
	}

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		p := valid()
		p.APIKey = ""
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "READINGPROXY_API_KEY")
	})

	t.Run("MissingUpstreamURL", func(t *testing.T) {
		p := valid()
		p.UpstreamURL = ""
		require.Error(t, p.Validate())
	})

	t.Run("InvalidPort", func(t *testing.T) {
		p := valid()
		p.Port = 0
		require.Error(t, p.Validate())

		p = valid()
		p.Port = 70000
		require.Error(t, p.Validate())
	})

	t.Run("UnknownModeFallsBackToDev", func(t *testing.T) {
		p := valid()
		p.Mode = "staging"
		require.NoError(t, p.Validate())
		assert.Equal(t, "dev", p.Mode)
		assert.True(t, p.IsDev())
	})

	t.Run("EmptyPlanGetsDefault", func(t *testing.T) {
		p := valid()
		p.Plan = ""
		require.NoError(t, p.Validate())
		assert.Equal(t, "oycb", p.Plan)
	})
}
