package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oycb/readingproxy/server/cache"
	"github.com/oycb/readingproxy/server/internal/observability"
)

const (
	// HeaderCacheStatus carries the HIT/MISS indicator on reading responses.
	HeaderCacheStatus = "X-Cache"
	// HeaderReadingDate carries the resolved reading date.
	HeaderReadingDate = "X-Reading-Date"

	cacheHit  = "HIT"
	cacheMiss = "MISS"

	dateLayout = "2006-01-02"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	CacheSize int    `json:"cacheSize"`
}

type clearResponse struct {
	Message string `json:"message"`
}

type statsResponse struct {
	Size    int               `json:"size"`
	TTLMs   int64             `json:"ttlMs"`
	Hits    int64             `json:"hits"`
	Misses  int64             `json:"misses"`
	Entries []cache.EntryStat `json:"entries"`
}

// getReading serves the reading for the requested date, fetching from
// upstream only when the store has no valid entry for it. A fetch failure is
// translated into a 500 here and is never written to the store.
func (s *Server) getReading(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger)

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
	}

	if entry, ok := s.store.Get(date); ok {
		reqCtx.Info("reading served",
			slog.String(observability.LogFieldDate, date),
			slog.String(observability.LogFieldCacheStatus, cacheHit),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return s.respondReading(c, entry.Date, cacheHit, entry.Data)
	}

	data, err := s.fetcher.Fetch(c.Request().Context(), date)
	if err != nil {
		reqCtx.Error("reading fetch failed", err,
			slog.String(observability.LogFieldDate, date),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return c.JSON(http.StatusInternalServerError,
			errorResponse{Error: errors.Wrapf(err, "fetch reading for %s", date).Error()})
	}
	s.store.Put(date, data)

	reqCtx.Info("reading served",
		slog.String(observability.LogFieldDate, date),
		slog.String(observability.LogFieldCacheStatus, cacheMiss),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return s.respondReading(c, date, cacheMiss, data)
}

func (s *Server) respondReading(c echo.Context, date, status, body string) error {
	h := c.Response().Header()
	h.Set(HeaderCacheStatus, status)
	h.Set(HeaderReadingDate, date)
	return c.HTML(http.StatusOK, body)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		CacheSize: s.store.Size(),
	})
}

func (s *Server) cacheStats(c echo.Context) error {
	st := s.store.Stats()
	return c.JSON(http.StatusOK, statsResponse{
		Size:    st.Size,
		TTLMs:   st.TTL.Milliseconds(),
		Hits:    st.Hits,
		Misses:  st.Misses,
		Entries: st.Entries,
	})
}

func (s *Server) cacheClear(c echo.Context) error {
	s.store.Clear()
	s.logger.Info("cache cleared")
	return c.JSON(http.StatusOK, clearResponse{Message: "cache cleared"})
}
