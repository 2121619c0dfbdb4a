package pdf

import (
	"context"
	"errors"
	"fmt"

	"site-functions/internal/common/config"
	commonhttp "site-functions/internal/common/http"
)

// Renderer turns a self-contained HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

var (
	ErrEmptyDocument  = errors.New("empty HTML document")
	ErrEmptyPDF       = errors.New("renderer returned an empty document")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPrint          = errors.New("failed to print page")
)

// New returns the renderer selected by cfg.Driver.
func New(cfg config.PDFConfig) (Renderer, error) {
	switch cfg.Driver {
	case config.PDFDriverCloudflare:
		return NewCloudflareRenderer(cfg.BaseURL, cfg.AccountID, cfg.APIToken, commonhttp.NewClient(cfg.Timeout)), nil
	case config.PDFDriverChromium:
		return NewChromiumRenderer(cfg.ChromiumURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown pdf driver %q", cfg.Driver)
	}
}
