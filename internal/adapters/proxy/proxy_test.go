package proxy

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focusguard/internal/domain"
)

// staticChecker blocks one hostname. counted, when set, tracks how many
// requests were treated as page loads.
type staticChecker struct {
	blocked string
	err     error
	counted *atomic.Int32
}

func (c staticChecker) OnRequestHost(ctx context.Context, host string) (domain.Decision, error) {
	if c.counted != nil {
		c.counted.Add(1)
	}
	return c.Check(ctx, host)
}

func (c staticChecker) Check(ctx context.Context, host string) (domain.Decision, error) {
	if c.err != nil {
		return domain.Decision{}, c.err
	}
	h, _, err := net.SplitHostPort(host)
	if err != nil {
		h = host
	}
	if h == c.blocked {
		return domain.Decision{Blocked: true, Host: h, RedirectURL: "http://focus.test/blocked?host=" + h}, nil
	}
	return domain.Decision{Host: h}, nil
}

func startProxy(t *testing.T, checker HostChecker) *url.URL {
	t.Helper()
	srv := httptest.NewServer(New(checker))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func proxiedClient(proxyURL *url.URL) *http.Client {
	return &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestProxy_ForwardsAllowedRequests(t *testing.T) {
	seen := make(chan http.Header, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Clone()
		w.Header().Set("X-Upstream", "yes")
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "hello")
	}))
	defer upstream.Close()

	client := proxiedClient(startProxy(t, staticChecker{blocked: "reddit.com"}))
	req, _ := http.NewRequest(http.MethodGet, upstream.URL+"/x", nil)
	req.Header.Set("X-Test", "kept")
	req.Header.Set("Proxy-Connection", "keep-alive")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "yes", resp.Header.Get("X-Upstream"))
	got := <-seen
	assert.Equal(t, "kept", got.Get("X-Test"))
	assert.Empty(t, got.Get("Proxy-Connection"))
	assert.NotEmpty(t, got.Get("X-Forwarded-For"))
}

func TestProxy_RedirectsBlockedRequests(t *testing.T) {
	client := proxiedClient(startProxy(t, staticChecker{blocked: "reddit.com"}))

	resp, err := client.Get("http://reddit.com/r/golang")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://focus.test/blocked?host=reddit.com", resp.Header.Get("Location"))
}

func TestProxy_CountsOnlyPageLoads(t *testing.T) {
	var counted atomic.Int32
	checker := staticChecker{blocked: "reddit.com", counted: &counted}
	client := proxiedClient(startProxy(t, checker))

	get := func(dest string) int {
		req, _ := http.NewRequest(http.MethodGet, "http://reddit.com/r/golang", nil)
		if dest != "" {
			req.Header.Set("Sec-Fetch-Dest", dest)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	for _, dest := range []string{"image", "script", "style", ""} {
		assert.Equal(t, http.StatusFound, get(dest), "dest %q", dest)
	}
	assert.Zero(t, counted.Load(), "subresources must not count as attempts")

	assert.Equal(t, http.StatusFound, get("document"))
	assert.EqualValues(t, 1, counted.Load())

	conn, err := net.Dial("tcp", startProxy(t, checker).Host)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "CONNECT reddit.com:443 HTTP/1.1\r\nHost: reddit.com:443\r\n\r\n")
	require.NoError(t, err)
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.EqualValues(t, 1, counted.Load(), "tunnels are never counted")
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		name   string
		method string
		header map[string]string
		want   bool
	}{
		{"fetch dest document", http.MethodGet, map[string]string{"Sec-Fetch-Dest": "document"}, true},
		{"fetch dest image", http.MethodGet, map[string]string{"Sec-Fetch-Dest": "image", "Accept": "text/html"}, false},
		{"html accept", http.MethodGet, map[string]string{"Accept": "text/html,application/xhtml+xml"}, true},
		{"html post", http.MethodPost, map[string]string{"Accept": "text/html"}, false},
		{"no hints", http.MethodGet, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "http://example.com/", nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := isDocument(r); got != tt.want {
				t.Errorf("isDocument() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProxy_FailsOpen(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer upstream.Close()

	client := proxiedClient(startProxy(t, staticChecker{err: errors.New("store down")}))
	resp, err := client.Get(upstream.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProxy_RejectsOriginRequests(t *testing.T) {
	proxyURL := startProxy(t, staticChecker{})
	resp, err := http.Get(proxyURL.String() + "/not-proxied")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProxy_ConnectBlocked(t *testing.T) {
	proxyURL := startProxy(t, staticChecker{blocked: "reddit.com"})

	conn, err := net.Dial("tcp", proxyURL.Host)
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, "CONNECT reddit.com:443 HTTP/1.1\r\nHost: reddit.com:443\r\n\r\n")
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "reddit.com is blocked")
}

func TestProxy_ConnectTunnel(t *testing.T) {
	upstream := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "secure")
	}))
	defer upstream.Close()

	client := upstream.Client()
	client.Transport.(*http.Transport).Proxy = http.ProxyURL(startProxy(t, staticChecker{blocked: "reddit.com"}))

	resp, err := client.Get(upstream.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "secure", string(body))
}

func TestRemoveHopHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "X-Custom, keep-alive")
	h.Set("X-Custom", "1")
	h.Set("Keep-Alive", "timeout=5")
	h.Set("Content-Type", "text/plain")

	removeHopHeaders(h)

	for _, name := range []string{"Connection", "X-Custom", "Keep-Alive"} {
		if h.Get(name) != "" {
			t.Errorf("%s should be removed", name)
		}
	}
	if !strings.HasPrefix(h.Get("Content-Type"), "text/plain") {
		t.Error("end-to-end headers must be kept")
	}
}
