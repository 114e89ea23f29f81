package tester_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"proxyswitch/internal/config"
	"proxyswitch/internal/metrics"
	"proxyswitch/internal/model"
	"proxyswitch/internal/tester"
)

// echoProxy answers proxied requests itself, demanding bob/secret.
func echoProxy(t *testing.T) model.Profile {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probe := &http.Request{Header: http.Header{"Authorization": r.Header["Proxy-Authorization"]}}
		if u, p, ok := probe.BasicAuth(); !ok || u != "bob" || p != "secret" {
			w.WriteHeader(http.StatusProxyAuthRequired)
			return
		}
		_, _ = io.WriteString(w, "203.0.113.7")
	}))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)
	return model.Profile{ID: "ok", Name: "ok", Host: host, Port: port, Username: "bob", Password: "secret"}
}

func deadProfile(t *testing.T) model.Profile {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().(*net.TCPAddr)
	l.Close()
	return model.Profile{ID: "dead", Host: "127.0.0.1", Port: addr.Port}
}

func newTester() *tester.Tester {
	return tester.New(config.CheckConfig{EchoURL: "http://echo.test/", Timeout: 2 * time.Second, Retries: 1})
}

func TestCheckAll(t *testing.T) {
	good := echoProxy(t)
	badAuth := good
	badAuth.ID, badAuth.Password = "badauth", "nope"
	noHost := model.Profile{ID: "draft"}

	mc := metrics.New()
	results := newTester().CheckAll(context.Background(), []model.Profile{good, badAuth, deadProfile(t), noHost}, mc)

	if results[0].Err != nil || results[0].Latency <= 0 {
		t.Errorf("good profile failed: %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("wrong credentials should fail")
	}
	if results[2].Err == nil {
		t.Error("closed port should fail")
	}
	if !errors.Is(results[3].Err, tester.ErrNoHost) {
		t.Errorf("hostless profile: got %v", results[3].Err)
	}
	for i, want := range []string{"ok", "badauth", "dead", "draft"} {
		if results[i].Profile.ID != want {
			t.Errorf("result %d is %q, want %q", i, results[i].Profile.ID, want)
		}
	}

	ok, failed := mc.Counts()
	if ok != 1 || failed != 4 {
		t.Errorf("metrics: %d ok / %d failed, want 1 / 4", ok, failed)
	}
}

func TestFindFirstAlive(t *testing.T) {
	good := echoProxy(t)
	winner, err := newTester().FindFirstAlive(context.Background(), []model.Profile{deadProfile(t), {ID: "draft"}, good})
	if err != nil {
		t.Fatal(err)
	}
	if winner.ID != good.ID {
		t.Errorf("winner %q, want %q", winner.ID, good.ID)
	}

	if _, err := newTester().FindFirstAlive(context.Background(), []model.Profile{deadProfile(t)}); err == nil {
		t.Error("expected error when nothing is reachable")
	}
}
