// Package engine owns the proxy profiles and decides, per request and per
// authentication challenge, how traffic leaves the process.
//
// Commands are serialised by a mutex and publish a fresh immutable snapshot;
// Route and Credentials only read the latest snapshot and may run from any
// goroutine.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"proxyswitch/internal/logger"
	"proxyswitch/internal/model"

	"github.com/google/uuid"
)

// Persister loads and saves engine state.
type Persister interface {
	Load() (*model.State, error)
	Save(st *model.State) error
}

type Engine struct {
	mu        sync.Mutex
	state     atomic.Pointer[model.State]
	store     Persister
	host      Host
	indicator Indicator
}

// ProfileFields carries the user-editable profile fields. Nil means
// "not supplied".
type ProfileFields struct {
	Name     *string         `json:"name,omitempty"`
	Host     *string         `json:"host,omitempty"`
	Port     *model.FlexPort `json:"port,omitempty"`
	Username *string         `json:"username,omitempty"`
	Password *string         `json:"password,omitempty"`
}

// New loads persisted state and registers hooks to match it. host and ind
// may be nil.
func New(store Persister, host Host, ind Indicator) (*Engine, error) {
	if host == nil {
		host = nopHost{}
	}
	if ind == nil {
		ind = nopIndicator{}
	}
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	e := &Engine{store: store, host: host, indicator: ind}
	e.state.Store(st)
	e.reconcile(nil, st)
	return e, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() *model.State {
	return e.state.Load().Clone()
}

// commit publishes next, persists it and reconciles hooks. A failed save
// is reported but the new state stays in effect.
func (e *Engine) commit(prev, next *model.State) error {
	e.state.Store(next)
	err := e.store.Save(next)
	e.reconcile(prev, next)
	if err != nil {
		logger.Log.Errorf("Failed to persist state: %v", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (e *Engine) AddProfile(f ProfileFields) (model.Profile, error) {
	port, err := validatePort(f.Port)
	if err != nil {
		return model.Profile{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := model.Profile{ID: uuid.NewString(), Port: port}
	apply(&p, f)

	prev := e.state.Load()
	next := prev.Clone()
	next.Profiles = append(next.Profiles, p)
	// A dangling id counts as no selection.
	if _, ok := ActiveProfile(prev); !ok {
		id := p.ID
		next.ActiveProfileID = &id
	}
	logger.Log.Debugf("Added profile %s (%s)", p.ID, p.Address())
	return p, e.commit(prev, next)
}

func (e *Engine) UpdateProfile(id string, f ProfileFields) error {
	var port int
	if f.Port != nil {
		var err error
		if port, err = validatePort(f.Port); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Load()
	i := indexOf(prev, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := prev.Clone()
	p := &next.Profiles[i]
	if f.Port != nil {
		p.Port = port
	}
	apply(p, f)
	logger.Log.Debugf("Updated profile %s", id)
	return e.commit(prev, next)
}

// DeleteProfile removes id if present and returns the resulting enabled flag.
func (e *Engine) DeleteProfile(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Load()
	i := indexOf(prev, id)
	if i < 0 {
		return prev.Enabled, nil
	}

	next := prev.Clone()
	next.Profiles = append(next.Profiles[:i], next.Profiles[i+1:]...)
	if next.ActiveID() == id {
		next.ActiveProfileID = nil
		if len(next.Profiles) > 0 {
			first := next.Profiles[0].ID
			next.ActiveProfileID = &first
		}
	}
	if len(next.Profiles) == 0 {
		next.Enabled = false
	}
	logger.Log.Debugf("Deleted profile %s", id)
	return next.Enabled, e.commit(prev, next)
}

// SetActiveProfile selects id, which must name an existing profile.
func (e *Engine) SetActiveProfile(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Load()
	if indexOf(prev, id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := prev.Clone()
	next.ActiveProfileID = &id
	logger.Log.Debugf("Active profile set to %s", id)
	return e.commit(prev, next)
}

// Toggle flips enabled. Turning on requires an active profile with a host.
func (e *Engine) Toggle() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Load()
	if !prev.Enabled {
		p, ok := ActiveProfile(prev)
		if !ok || !p.Usable() {
			return false, ErrNoActiveProfile
		}
	}
	next := prev.Clone()
	next.Enabled = !prev.Enabled
	logger.Log.Debugf("Proxy enabled=%v", next.Enabled)
	return next.Enabled, e.commit(prev, next)
}

// validatePort applies the input rule: missing or zero means the default
// port, anything else must be a valid TCP port.
func validatePort(v *model.FlexPort) (int, error) {
	if v == nil || *v == 0 {
		return model.DefaultPort, nil
	}
	port := int(*v)
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrValidation, port)
	}
	return port, nil
}

func apply(p *model.Profile, f ProfileFields) {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Host != nil {
		p.Host = strings.TrimSpace(*f.Host)
	}
	if f.Username != nil {
		p.Username = *f.Username
	}
	if f.Password != nil {
		p.Password = *f.Password
	}
	if p.Name == "" {
		p.Name = p.Address()
	}
}
