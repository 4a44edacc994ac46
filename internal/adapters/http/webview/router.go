package webview

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the dashboard routes with the given middlewares.
func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Index)
	r.GET("/api/v1/counters", h.CountersJSON)
	r.GET("/api/v1/names", h.NamesJSON)

	return r
}
