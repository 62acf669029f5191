// Package proxy is a local forward HTTP proxy that refuses blocklisted
// hosts while a focus session runs.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"golang.org/x/sync/errgroup"
)

// HostChecker decides whether requests to a host may pass. OnRequestHost is
// used for page loads and counts a block; Check has no side effects.
type HostChecker interface {
	OnRequestHost(ctx context.Context, host string) (domain.Decision, error)
	Check(ctx context.Context, host string) (domain.Decision, error)
}

// hopHeaders are removed before forwarding (RFC 9110 section 7.6.1).
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy implements http.Handler for proxied requests and CONNECT tunnels.
type Proxy struct {
	checker   HostChecker
	transport http.RoundTripper
	dial      func(ctx context.Context, network, addr string) (net.Conn, error)
	log       *slog.Logger
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithTransport sets the round tripper used for plain HTTP requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) { p.transport = rt }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Proxy) { p.log = l }
}

// New creates a proxy that consults checker for every request.
func New(checker HostChecker, opts ...Option) *Proxy {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	p := &Proxy{
		checker: checker,
		transport: &http.Transport{
			DialContext:           dialer.DialContext,
			MaxIdleConns:          50,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
		dial: dialer.DialContext,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodConnect {
		p.handleConnect(w, r)
		return
	}
	if r.URL.Host == "" || !r.URL.IsAbs() {
		http.Error(w, "this is a forward proxy; send absolute URLs", http.StatusBadRequest)
		return
	}

	if d := p.check(r.Context(), r.URL.Host, isDocument(r)); d.Blocked {
		http.Redirect(w, r, d.RedirectURL, http.StatusFound)
		return
	}
	p.forward(w, r)
}

// check fails open: a broken checker must not take the network down. Only
// page loads are counted as blocked navigations.
func (p *Proxy) check(ctx context.Context, host string, pageLoad bool) domain.Decision {
	var (
		d   domain.Decision
		err error
	)
	if pageLoad {
		d, err = p.checker.OnRequestHost(ctx, host)
	} else {
		d, err = p.checker.Check(ctx, host)
	}
	if err != nil {
		p.log.Warn("Proxy host check failed", logfields.Host(host), logfields.Error(err))
		return domain.Decision{}
	}
	return d
}

// isDocument reports whether r loads a top-level page. Browsers send
// Sec-Fetch-Dest; without it only GETs that accept HTML qualify.
func isDocument(r *http.Request) bool {
	if dest := r.Header.Get("Sec-Fetch-Dest"); dest != "" {
		return dest == "document"
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (p *Proxy) forward(w http.ResponseWriter, r *http.Request) {
	out := r.Clone(r.Context())
	out.RequestURI = ""
	removeHopHeaders(out.Header)
	if clientIP, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := out.Header.Get("X-Forwarded-For"); prior != "" {
			clientIP = prior + ", " + clientIP
		}
		out.Header.Set("X-Forwarded-For", clientIP)
	}

	resp, err := p.transport.RoundTrip(out)
	if err != nil {
		p.log.Debug("Upstream request failed", logfields.Host(r.URL.Host), logfields.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	removeHopHeaders(resp.Header)
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func (p *Proxy) handleConnect(w http.ResponseWriter, r *http.Request) {
	// The tunnel hides whether this is a page load, so it is never counted.
	if d := p.check(r.Context(), r.Host, false); d.Blocked {
		http.Error(w, fmt.Sprintf("%s is blocked during focus time", d.Host), http.StatusForbidden)
		return
	}

	upstream, err := p.dial(r.Context(), "tcp", r.Host)
	if err != nil {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	hj, ok := w.(http.Hijacker)
	if !ok {
		upstream.Close()
		http.Error(w, "tunneling unsupported", http.StatusInternalServerError)
		return
	}
	client, buf, err := hj.Hijack()
	if err != nil {
		upstream.Close()
		return
	}
	if _, err := client.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n")); err != nil {
		client.Close()
		upstream.Close()
		return
	}

	tunnel(r.Context(), client, io.MultiReader(buf.Reader, client), upstream)
}

// tunnel copies both directions until either side closes or ctx ends.
func tunnel(ctx context.Context, client net.Conn, clientReader io.Reader, upstream net.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		client.Close()
		upstream.Close()
	}()

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(upstream, clientReader)
		closeWrite(upstream)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(client, upstream)
		closeWrite(client)
		return err
	})
	_ = g.Wait()
}

func closeWrite(c net.Conn) {
	if cw, ok := c.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
		return
	}
	_ = c.Close()
}

func removeHopHeaders(h http.Header) {
	for _, f := range h.Values("Connection") {
		for _, name := range strings.Split(f, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// ListenAndServe runs the proxy on addr until ctx is cancelled.
func (p *Proxy) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           p,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	p.log.Info("Blocking proxy listening", logfields.Addr(addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
