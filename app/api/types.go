package api

import (
	"github.com/lysyi3m/medium-cards/app/feed"
	"github.com/lysyi3m/medium-cards/app/loader"
	"github.com/lysyi3m/medium-cards/app/proxy"
	"github.com/lysyi3m/medium-cards/app/render"
)

type GeneratorInterface interface {
	Run(username, profileURL string, items []feed.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	registry    *proxy.Registry
	chain       *proxy.Chain
	renderer    *render.Renderer
	enricher    *loader.Enricher
	generator   GeneratorInterface
	opts        loader.Options
	containerID string
	version     string
}
