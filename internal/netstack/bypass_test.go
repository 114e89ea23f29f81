package netstack

import (
	"net/http"
	"testing"

	"proxyswitch/internal/engine"
)

type fixedRouter struct{ d engine.Decision }

func (f fixedRouter) Route() engine.Decision { return f.d }

func TestProxyFor_Bypass(t *testing.T) {
	h := New(".internal.example,10.1.2.3")
	h.Install(fixedRouter{engine.Decision{Host: "proxy.example.com", Port: 3128}}, nil)

	cases := map[string]string{
		"http://svc.internal.example/x": "",
		"http://10.1.2.3/":              "",
		"https://www.example.org/":      "proxy.example.com:3128",
	}
	for target, want := range cases {
		req, _ := http.NewRequest(http.MethodGet, target, nil)
		u, err := h.proxyFor(req)
		if err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		got := ""
		if u != nil {
			got = u.Host
		}
		if got != want {
			t.Errorf("%s: proxy %q, want %q", target, got, want)
		}
	}
}

func TestProxyFor_DirectDecision(t *testing.T) {
	h := New("")
	h.Install(fixedRouter{engine.Decision{Direct: true}}, nil)
	req, _ := http.NewRequest(http.MethodGet, "http://example.org/", nil)
	if u, _ := h.proxyFor(req); u != nil {
		t.Errorf("direct decision produced proxy %v", u)
	}
}
