package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oycb/readingproxy/internal/profile"
	"github.com/oycb/readingproxy/server"
	"github.com/oycb/readingproxy/server/cache"
	"github.com/oycb/readingproxy/server/fetcher"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "readingproxy",
	Short: "Caching proxy for the daily reading content API",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Version: version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		initLogger(instanceProfile)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := cache.NewStore(cache.DefaultTTL)
		f := fetcher.New(
			instanceProfile.UpstreamURL,
			instanceProfile.Plan,
			instanceProfile.APIKey,
			instanceProfile.FetchTimeout,
		)
		srv := server.New(instanceProfile, store, f, slog.Default())

		go func() {
			slog.Info("reading proxy started",
				slog.String("addr", instanceProfile.ListenAddr()),
				slog.String("mode", instanceProfile.Mode),
				slog.String("version", version))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("server stopped", slog.String("error", err.Error()))
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", slog.String("error", err.Error()))
		}
	},
}

func init() {
	viper.SetEnvPrefix("readingproxy")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8080, "port of server")
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
}

func initLogger(p *profile.Profile) {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
