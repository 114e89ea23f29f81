package engine

import (
	"strconv"

	"proxyswitch/internal/model"
)

// Decision is the routing verdict for one outbound request.
type Decision struct {
	Direct bool
	Host   string
	Port   int
}

// Address returns "host:port" of the proxy, or "" for a direct decision.
func (d Decision) Address() string {
	if d.Direct {
		return ""
	}
	return d.Host + ":" + strconv.Itoa(d.Port)
}

func (d Decision) String() string {
	if d.Direct {
		return "direct"
	}
	return "http " + d.Address()
}

// Challenge describes an authentication request seen during connection setup.
type Challenge struct {
	// IsProxy is true for 407 challenges issued by a proxy.
	IsProxy bool
	// Proxy is the challenging proxy's "host:port".
	Proxy string
	Realm string
}

type Credentials struct {
	Username string
	Password string
}

// Router decides how a request leaves the process.
type Router interface {
	Route() Decision
}

// Authenticator answers proxy authentication challenges.
type Authenticator interface {
	Credentials(ch Challenge) (Credentials, bool)
}

var direct = Decision{Direct: true}

// Route reads the current snapshot only and never fails.
func (e *Engine) Route() Decision {
	return decide(e.state.Load())
}

func decide(st *model.State) Decision {
	if st == nil || !st.Enabled {
		return direct
	}
	p, ok := ActiveProfile(st)
	if !ok || !p.Usable() {
		return direct
	}
	return Decision{Host: p.Host, Port: p.Port}
}

// Credentials returns the active profile's login for proxy challenges while
// the engine is enabled. ok=false lets the challenge fall through.
func (e *Engine) Credentials(ch Challenge) (Credentials, bool) {
	return answer(e.state.Load(), ch)
}

func answer(st *model.State, ch Challenge) (Credentials, bool) {
	if !ch.IsProxy || st == nil || !st.Enabled {
		return Credentials{}, false
	}
	p, ok := ActiveProfile(st)
	if !ok || !p.HasCredentials() {
		return Credentials{}, false
	}
	return Credentials{Username: p.Username, Password: p.Password}, true
}
