// Package pages tracks the content scripts connected to the daemon and
// delivers commands to them.
package pages

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// commandBuffer is the number of undelivered commands a page may hold.
const commandBuffer = 8

type conn struct {
	page domain.Page
	seq  uint64
	cmds chan domain.PageCommand
}

// Registry implements ports.PageHost and ports.Redirector.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*conn
	seq   uint64

	// OnChange, when set, receives the number of connected pages.
	OnChange func(n int)
}

var (
	_ ports.PageHost   = (*Registry)(nil)
	_ ports.Redirector = (*Registry)(nil)
)

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*conn)}
}

// Connect registers a page and returns it with its assigned ID, the channel
// its commands arrive on, and a function to call on disconnect.
func (r *Registry) Connect(page domain.Page) (domain.Page, <-chan domain.PageCommand, func()) {
	page.ID = uuid.NewString()
	c := &conn{page: page, cmds: make(chan domain.PageCommand, commandBuffer)}

	r.mu.Lock()
	r.seq++
	c.seq = r.seq
	r.conns[page.ID] = c
	n := len(r.conns)
	r.mu.Unlock()
	r.changed(n)

	var once sync.Once
	disconnect := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.conns, page.ID)
			n := len(r.conns)
			r.mu.Unlock()
			r.changed(n)
		})
	}
	return page, c.cmds, disconnect
}

// Navigate records that a page moved to a new URL.
func (r *Registry) Navigate(pageID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[pageID]
	if !ok {
		return domain.ErrPageGone
	}
	c.page.URL = url
	return nil
}

// Pages returns the connected pages in connection order.
func (r *Registry) Pages(ctx context.Context) ([]domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]*conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].seq < conns[j].seq })

	pages := make([]domain.Page, 0, len(conns))
	for _, c := range conns {
		pages = append(pages, c.page)
	}
	return pages, nil
}

// Send queues cmd for a page without waiting for it to be read.
func (r *Registry) Send(ctx context.Context, pageID string, cmd domain.PageCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[pageID]
	if !ok {
		return domain.ErrPageGone
	}
	select {
	case c.cmds <- cmd:
		return nil
	default:
		return fmt.Errorf("page %s is not reading commands", pageID)
	}
}

// RedirectTab sends a redirect to every page shown in tabID.
func (r *Registry) RedirectTab(ctx context.Context, tabID int, url string) error {
	pages, _ := r.Pages(ctx)
	sent := false
	for _, p := range pages {
		if p.TabID != tabID {
			continue
		}
		if err := r.Send(ctx, p.ID, domain.RedirectCommand(url)); err == nil {
			sent = true
		}
	}
	if !sent {
		return domain.ErrPageGone
	}
	return nil
}

func (r *Registry) changed(n int) {
	if r.OnChange != nil {
		r.OnChange(n)
	}
}
