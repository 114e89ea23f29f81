package main

import (
	"testing"

	"proxyswitch/internal/engine"
	"proxyswitch/internal/netstack"
	"proxyswitch/internal/storage"
)

func TestAppRoute_DirectOnceHooksRemoved(t *testing.T) {
	host := netstack.New("")
	e, err := engine.New(storage.New(storage.NewMemoryBackend()), host, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := "10.0.0.5"
	if _, err := e.AddProfile(engine.ProfileFields{Host: &h}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Toggle(); err != nil {
		t.Fatal(err)
	}
	a := &app{host: host, engine: e, closeDB: func() {}}

	if got := a.route().String(); got != "http 10.0.0.5:8080" {
		t.Errorf("route with hooks = %q", got)
	}
	host.Remove()
	if got := a.route().String(); got != "direct" {
		t.Errorf("route after Remove = %q, want direct", got)
	}
}
