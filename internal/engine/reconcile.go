package engine

import (
	"fmt"

	"proxyswitch/internal/logger"
	"proxyswitch/internal/model"
)

const offLabel = "HTTP Proxy Manager (Off)"

// Host is the networking layer the engine registers its hooks with.
type Host interface {
	Install(r Router, a Authenticator)
	Remove()
}

// Indicator shows whether proxying is on.
type Indicator interface {
	SetIndicator(on bool, label string)
}

// Label is the indicator text for st.
func Label(st *model.State) string {
	if !proxying(st) {
		return offLabel
	}
	p, _ := ActiveProfile(st)
	return fmt.Sprintf("Proxy: %s (%s)", p.Name, p.Address())
}

// reconcile brings hook registration and the indicator in line with cur.
// old is nil on the first pass after loading.
func (e *Engine) reconcile(old, cur *model.State) {
	was, now := proxying(old), proxying(cur)
	switch {
	case now && !was:
		e.host.Install(e, e)
		logger.Log.Infof("Proxy hooks installed (%s)", decide(cur))
	case was && !now:
		e.host.Remove()
		logger.Log.Info("Proxy hooks removed, traffic goes direct")
	}

	label := Label(cur)
	if old == nil || label != Label(old) {
		e.indicator.SetIndicator(now, label)
	}
}

type nopHost struct{}

func (nopHost) Install(Router, Authenticator) {}
func (nopHost) Remove()                       {}

type nopIndicator struct{}

func (nopIndicator) SetIndicator(bool, string) {}
