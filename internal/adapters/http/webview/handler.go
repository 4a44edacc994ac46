// Package webview exposes a read-only HTTP view of a running monitor. It
// reads exclusively through the monitor's request endpoint, never the
// registry itself.
package webview

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Reader is the slice of the monitor client the view needs.
type Reader interface {
	DumpAll() (map[string]int64, error)
	DumpNames() ([]string, error)
}

// Handler serves the counter dashboard. The underlying client is not safe for
// concurrent use, so requests are serialized.
type Handler struct {
	mu     sync.Mutex
	reader Reader
}

// NewHandler wraps a monitor reader.
func NewHandler(r Reader) *Handler {
	return &Handler{reader: r}
}

// Index renders an HTML table of every counter.
func (h *Handler) Index(c *gin.Context) {
	h.mu.Lock()
	counters, err := h.reader.DumpAll()
	h.mu.Unlock()
	if err != nil {
		c.String(http.StatusBadGateway, "monitor unavailable: %v", err)
		return
	}

	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>monitor</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:6px 10px}</style>")
	sb.WriteString("</head><body><h1>Counters</h1>")
	sb.WriteString("<table><tr><th>Name</th><th>Value</th></tr>")
	for _, name := range names {
		sb.WriteString("<tr><td>")
		sb.WriteString(name)
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.FormatInt(counters[name], 10))
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table></body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}

// CountersJSON handles `GET /api/v1/counters`.
func (h *Handler) CountersJSON(c *gin.Context) {
	h.mu.Lock()
	counters, err := h.reader.DumpAll()
	h.mu.Unlock()
	if err != nil {
		c.String(http.StatusBadGateway, "monitor unavailable: %v", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counters": counters})
}

// NamesJSON handles `GET /api/v1/names`.
func (h *Handler) NamesJSON(c *gin.Context) {
	h.mu.Lock()
	names, err := h.reader.DumpNames()
	h.mu.Unlock()
	if err != nil {
		c.String(http.StatusBadGateway, "monitor unavailable: %v", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}
