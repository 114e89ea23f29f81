// Package netstack is the process's outbound HTTP stack. The engine installs
// its router and authenticator here while proxying is active; with nothing
// installed every request goes direct.
package netstack

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"proxyswitch/internal/engine"
	"proxyswitch/internal/logger"

	"golang.org/x/net/http/httpproxy"
)

var errProxyAuth = errors.New("proxy authentication required")

type Host struct {
	mu         sync.RWMutex
	router     engine.Router
	auth       engine.Authenticator
	challenged map[string]bool

	bypass    string
	transport *http.Transport
}

// New builds a Host. bypass is a NO_PROXY style list of destinations that
// are never proxied.
func New(bypass string) *Host {
	h := &Host{
		bypass:     bypass,
		challenged: make(map[string]bool),
	}
	h.transport = &http.Transport{
		Proxy:                  h.proxyFor,
		OnProxyConnectResponse: h.onConnectResponse,
		ForceAttemptHTTP2:      true,
		MaxIdleConns:           100,
		IdleConnTimeout:        90 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
	}
	return h
}

func (h *Host) Install(r engine.Router, a engine.Authenticator) {
	h.mu.Lock()
	h.router, h.auth = r, a
	h.mu.Unlock()
}

func (h *Host) Remove() {
	h.mu.Lock()
	h.router, h.auth = nil, nil
	h.challenged = make(map[string]bool)
	h.mu.Unlock()
	h.transport.CloseIdleConnections()
}

// Installed reports whether hooks are currently registered.
func (h *Host) Installed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.router != nil
}

// Client returns an http.Client that sends everything through h.
func (h *Host) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: h, Timeout: timeout}
}

func (h *Host) hooks() (engine.Router, engine.Authenticator) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.router, h.auth
}

// proxyFor is the per-request routing hook.
func (h *Host) proxyFor(req *http.Request) (*url.URL, error) {
	router, auth := h.hooks()
	if router == nil {
		return nil, nil
	}
	d := router.Route()
	if d.Direct {
		return nil, nil
	}

	u := &url.URL{Scheme: "http", Host: net.JoinHostPort(d.Host, strconv.Itoa(d.Port))}
	if h.bypass != "" {
		cfg := httpproxy.Config{HTTPProxy: u.String(), HTTPSProxy: u.String(), NoProxy: h.bypass}
		pu, err := cfg.ProxyFunc()(req.URL)
		if err != nil || pu == nil {
			return nil, err
		}
	}

	// Once a proxy has challenged us, answer up front on every request.
	h.mu.RLock()
	seen := h.challenged[u.Host]
	h.mu.RUnlock()
	if seen && auth != nil {
		if c, ok := auth.Credentials(engine.Challenge{IsProxy: true, Proxy: u.Host}); ok {
			u.User = url.UserPassword(c.Username, c.Password)
		}
	}
	return u, nil
}

func (h *Host) onConnectResponse(_ context.Context, proxyURL *url.URL, _ *http.Request, res *http.Response) error {
	if res.StatusCode == http.StatusProxyAuthRequired && proxyURL.User == nil {
		return errProxyAuth
	}
	return nil
}

// RoundTrip sends req and answers at most one proxy challenge. Failures of
// proxied requests are logged.
func (h *Host) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := h.roundTrip(req)
	if err != nil {
		if pu, perr := h.proxyFor(req); perr == nil && pu != nil {
			logger.Log.Warnf("Proxy error via %s for %s: %v", pu.Host, req.URL.Host, err)
		}
	}
	return resp, err
}

func (h *Host) roundTrip(req *http.Request) (*http.Response, error) {
	resp, err := h.transport.RoundTrip(req)

	proxyAddr, challenged := h.challenge(req, resp, err)
	if !challenged {
		return resp, err
	}
	_, auth := h.hooks()
	if auth == nil {
		return resp, err
	}
	ch := engine.Challenge{IsProxy: true, Proxy: proxyAddr, Realm: realm(resp)}
	if _, ok := auth.Credentials(ch); !ok {
		return resp, err
	}

	retry := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return resp, err
		}
		body, berr := req.GetBody()
		if berr != nil {
			return resp, err
		}
		retry.Body = body
	}
	if resp != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	h.mu.Lock()
	h.challenged[proxyAddr] = true
	h.mu.Unlock()
	logger.Log.Debugf("Answering proxy challenge from %s", proxyAddr)

	return h.transport.RoundTrip(retry)
}

// challenge reports whether the exchange ended in an unanswered 407 and
// which proxy issued it.
func (h *Host) challenge(req *http.Request, resp *http.Response, err error) (string, bool) {
	pu, perr := h.proxyFor(req)
	if perr != nil || pu == nil || pu.User != nil {
		return "", false
	}
	if err != nil {
		return pu.Host, errors.Is(err, errProxyAuth)
	}
	return pu.Host, resp.StatusCode == http.StatusProxyAuthRequired
}

// realm extracts realm="..." from a Proxy-Authenticate header.
func realm(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	v := resp.Header.Get("Proxy-Authenticate")
	_, after, ok := strings.Cut(v, `realm="`)
	if !ok {
		return ""
	}
	r, _, _ := strings.Cut(after, `"`)
	return r
}
