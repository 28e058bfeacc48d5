package generate

import (
	"git.home.luguber.info/inful/beandoc/internal/asciidoc"
	"git.home.luguber.info/inful/beandoc/internal/config"
	"git.home.luguber.info/inful/beandoc/internal/emit"
	"git.home.luguber.info/inful/beandoc/internal/markdown"
	"git.home.luguber.info/inful/beandoc/internal/typename"
)

// NewRenderer returns the renderer for the configured output format.
func NewRenderer(cfg *config.Config) emit.Renderer {
	types := typename.Resolver{
		Namespace: cfg.Docs.Namespace,
		Internal:  cfg.Docs.InternalNamespace,
		BaseURL:   cfg.Docs.JavadocURL,
		Style:     typename.StyleAsciiDoc,
	}

	if cfg.Output.Format == config.FormatMarkdown {
		r := markdown.NewRenderer()
		types.Style = typename.StyleMarkdown
		r.Types = types
		r.SummaryID = cfg.Docs.ListID
		r.SummaryTitle = cfg.Docs.ListTitle
		return r
	}

	r := asciidoc.NewRenderer()
	r.Types = types
	r.List = asciidoc.ListGenerator{ID: cfg.Docs.ListID, Title: cfg.Docs.ListTitle}
	return r
}
