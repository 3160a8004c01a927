// Package sinkserver is a development stand-in for the production metric
// sink: it accepts the collector's published measurements over HTTP and
// keeps the latest value per metric in memory for inspection.
package sinkserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/domain"
)

// Handler serves the measurement intake and inspection endpoints.
type Handler struct {
	mu     sync.RWMutex
	byName map[string]domain.Measurement
	log    *zap.Logger
}

// NewHandler builds an empty Handler.
func NewHandler(log *zap.Logger) *Handler {
	return &Handler{
		byName: make(map[string]domain.Measurement),
		log:    log,
	}
}

// Receive accepts one measurement as JSON and stores it, replacing any
// earlier value published under the same metric name.
func (h *Handler) Receive(c *gin.Context) {
	var m domain.Measurement
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(m.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric name is required"})
		return
	}

	h.mu.Lock()
	h.byName[m.Name] = m
	h.mu.Unlock()

	h.log.Debug("measurement received",
		zap.String("name", m.Name),
		zap.Float64("value", m.Value),
	)
	c.JSON(http.StatusOK, m)
}

// List returns every stored measurement as JSON, sorted by name.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// Ping reports liveness.
func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// Index renders the stored measurements as a minimal HTML table.
func (h *Handler) Index(c *gin.Context) {
	var b strings.Builder
	b.WriteString("<html><head><title>statprobe sink</title></head><body>")
	b.WriteString("<h1>Measurements</h1><table border=\"1\"><tr><th>Name</th><th>Value</th><th>Units</th><th>Type</th></tr>")
	for _, m := range h.snapshot() {
		b.WriteString("<tr><td>")
		b.WriteString(m.Name)
		b.WriteString("</td><td>")
		b.WriteString(formatValue(m))
		b.WriteString("</td><td>")
		b.WriteString(m.Units)
		b.WriteString("</td><td>")
		b.WriteString(string(m.Type))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table></body></html>")

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func (h *Handler) snapshot() []domain.Measurement {
	h.mu.RLock()
	out := make([]domain.Measurement, 0, len(h.byName))
	for _, m := range h.byName {
		out = append(out, m)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func formatValue(m domain.Measurement) string {
	if m.Type == domain.TypeUint32 {
		return strconv.FormatUint(uint64(m.Value), 10)
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}
