package main

import (
	"proxyswitch/internal/config"
	"proxyswitch/internal/engine"
	"proxyswitch/internal/logger"
	"proxyswitch/internal/netstack"
	"proxyswitch/internal/storage"
)

// app bundles everything a command needs to talk to the engine.
type app struct {
	cfg     *config.Config
	host    *netstack.Host
	engine  *engine.Engine
	closeDB func()
}

type logIndicator struct{}

func (logIndicator) SetIndicator(on bool, label string) {
	if on {
		logger.Log.Infof("🟢 %s", label)
	} else {
		logger.Log.Debugf("⚪ %s", label)
	}
}

func openApp() *app {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Log.Fatalf("Error loading config: %v", err)
	}

	backend, closeDB, err := storage.Open(cfg.Database.Backend, cfg.Database.Path)
	if err != nil {
		logger.Log.Fatalf("Error opening %s storage: %v", cfg.Database.Backend, err)
	}
	if cfg.Database.Backend == "memory" {
		logger.Log.Warn("Using in-memory storage, changes are lost on exit")
	}

	host := netstack.New(cfg.Network.Bypass)
	e, err := engine.New(storage.New(backend), host, logIndicator{})
	if err != nil {
		closeDB()
		logger.Log.Fatalf("Error loading state: %v", err)
	}
	return &app{cfg: cfg, host: host, engine: e, closeDB: closeDB}
}

// route is where outbound requests of this process go right now. With the
// hooks removed that is direct, whatever the engine state says.
func (a *app) route() engine.Decision {
	if !a.host.Installed() {
		return engine.Decision{Direct: true}
	}
	return a.engine.Route()
}

func (a *app) Close() {
	a.closeDB()
}

// fail reports a command error the way the API would name it.
func fail(action string, err error) {
	logger.Log.Fatalf("%s failed (%s): %v", action, engine.Kind(err), err)
}
