package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
)

const eventBuffer = 16

// connectedEvent is the first message on a page stream.
type connectedEvent struct {
	ID string `json:"id"`
}

// handlePageConnect registers a content script and streams its commands
// until the client goes away.
func (s *Server) handlePageConnect(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	tab, _ := strconv.Atoi(q.Get("tab"))
	page, cmds, disconnect := s.deps.Pages.Connect(domain.Page{TabID: tab, URL: q.Get("url")})
	defer disconnect()

	setStreamHeaders(w)
	s.log.Debug("Page connected", logfields.PageID(page.ID), logfields.TabID(tab), logfields.URL(page.URL))
	if err := writeEvent(w, flusher, "connected", connectedEvent{ID: page.ID}); err != nil {
		return
	}

	if s.deps.Loader != nil {
		s.deps.Loader.OnPageLoaded(r.Context(), page)
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Page disconnected", logfields.PageID(page.ID))
			return
		case <-heartbeat.C:
			if err := writeComment(w, flusher, "ping"); err != nil {
				return
			}
		case cmd := <-cmds:
			if err := writeEvent(w, flusher, cmd.Type, cmd); err != nil {
				return
			}
		}
	}
}

// handleEvents streams broadcasts such as statsUpdated.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, unsubscribe := s.deps.Events.Subscribe(eventBuffer)
	defer unsubscribe()

	setStreamHeaders(w)
	if err := writeComment(w, flusher, "subscribed"); err != nil {
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if err := writeComment(w, flusher, "ping"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, string(ev.Action), ev); err != nil {
				return
			}
		}
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
}

// writeEvent writes one named SSE event with a JSON payload.
func writeEvent(w http.ResponseWriter, f http.Flusher, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	f.Flush()
	return nil
}

func writeComment(w http.ResponseWriter, f http.Flusher, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	f.Flush()
	return nil
}
