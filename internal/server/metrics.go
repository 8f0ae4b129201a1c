package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	metrics "github.com/rcrowley/go-metrics"
)

// timed records handler latency under "http.<METHOD> <route>".
func (s *Server) timed() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.GetOrRegisterTimer("http."+c.Request.Method+" "+route, s.registry).UpdateSince(start)
		if c.Writer.Status() >= http.StatusBadRequest {
			metrics.GetOrRegisterCounter("http.errors", s.registry).Inc(1)
		}
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

// TimerStats is a latency summary in milliseconds.
type TimerStats struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean_ms"`
	P95   float64 `json:"p95_ms"`
	Max   float64 `json:"max_ms"`
}

type metricsResponse struct {
	Timers   map[string]TimerStats `json:"timers"`
	Counters map[string]int64      `json:"counters"`
	Cache    any                   `json:"cache"`
	Names    []string              `json:"names"`
}

func (s *Server) handleMetrics(c *gin.Context) {
	rsp := metricsResponse{
		Timers:   map[string]TimerStats{},
		Counters: map[string]int64{},
		Cache:    s.envelopes.Stats(),
	}
	const ms = float64(time.Millisecond)
	s.registry.Each(func(name string, m any) {
		switch v := m.(type) {
		case metrics.Timer:
			snap := v.Snapshot()
			rsp.Timers[name] = TimerStats{
				Count: snap.Count(),
				Mean:  snap.Mean() / ms,
				P95:   snap.Percentile(0.95) / ms,
				Max:   float64(snap.Max()) / ms,
			}
		case metrics.Counter:
			rsp.Counters[name] = v.Snapshot().Count()
		default:
			return
		}
		rsp.Names = append(rsp.Names, name)
	})
	sort.Strings(rsp.Names)
	c.JSON(http.StatusOK, rsp)
}
