package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/medium-cards/app/loader"
	"github.com/lysyi3m/medium-cards/app/proxy"
	"github.com/lysyi3m/medium-cards/app/render"
)

func NewHandler(registry *proxy.Registry, chain *proxy.Chain, renderer *render.Renderer,
	enricher *loader.Enricher, generator GeneratorInterface, opts loader.Options,
	containerID, version string) *Handler {
	return &Handler{
		registry:    registry,
		chain:       chain,
		renderer:    renderer,
		enricher:    enricher,
		generator:   generator,
		opts:        opts,
		containerID: containerID,
		version:     version,
	}
}

func (h *Handler) newLoader(doc render.Resolver) *loader.Loader {
	return loader.NewLoader(doc, h.chain, h.renderer, h.enricher, h.opts)
}

// GetArticles renders the cards for a username into a fresh container and
// returns the container's markup. The fallback card is a normal response.
func (h *Handler) GetArticles(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	containerID := c.DefaultQuery("container", h.containerID)
	doc := render.NewDocument(containerID)

	h.newLoader(doc).Load(c.Request.Context(), username, containerID)

	element, ok := doc.Element(containerID)
	if !ok {
		slog.Error("Container disappeared", "container", containerID)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Username", username)
	c.Header("X-Container-Id", containerID)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(element.HTML()))
}

// GetArticlesRSS re-syndicates the loaded items as RSS 2.0.
func (h *Handler) GetArticlesRSS(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	l := h.newLoader(render.NewDocument())
	items, err := l.Fetch(c.Request.Context(), username)
	if err != nil {
		slog.Warn("RSS generation skipped, no items", "username", username, "error", err)
		c.Status(http.StatusBadGateway)
		return
	}

	profileURL := strings.Replace(l.FeedURL(username), "/feed/", "/", 1)
	rss, err := h.generator.Run(username, profileURL, items)
	if err != nil {
		slog.Error("RSS generation error", "username", username, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", fmt.Sprint(len(items)))
	c.Header("X-Feed-Username", username)
	c.String(http.StatusOK, rss)
}

func (h *Handler) ListProxies(c *gin.Context) {
	configs := h.registry.Configs()

	proxies := make([]map[string]interface{}, 0, len(configs))
	for i, pc := range configs {
		proxies = append(proxies, map[string]interface{}{
			"position": i + 1,
			"name":     pc.Name,
			"url":      pc.URL,
			"kind":     pc.Kind,
			"enabled":  !pc.Disabled,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"proxies": proxies,
		"total":   len(proxies),
		"filters": len(h.registry.Filters()),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"proxies":   h.chain.Len(),
	})
}
