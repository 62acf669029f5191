package ports

import (
	"context"

	"github.com/xvierd/focusguard/internal/domain"
)

// PageHost enumerates connected pages and delivers commands to them.
// This is a driven port (implemented by infrastructure).
type PageHost interface {
	// Pages returns every connected page.
	Pages(ctx context.Context) ([]domain.Page, error)

	// Send delivers cmd to one page. Returns domain.ErrPageGone when the
	// page disconnected.
	Send(ctx context.Context, pageID string, cmd domain.PageCommand) error
}

// Redirector sends a tab to another URL.
// This is a driven port (implemented by infrastructure).
type Redirector interface {
	RedirectTab(ctx context.Context, tabID int, url string) error
}
