// Package storage persists engine state and upgrades the legacy
// single-proxy record on first load.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"proxyswitch/internal/logger"
	"proxyswitch/internal/model"

	"github.com/google/uuid"
)

const (
	StateKey  = "proxyState"
	LegacyKey = "proxyConfig"
)

// ErrStorage wraps every durable-storage failure.
var ErrStorage = errors.New("storage failure")

type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the current-schema record if present, otherwise migrates a
// legacy record (rewriting it under StateKey), otherwise the empty state.
func (s *Store) Load() (*model.State, error) {
	raw, ok, err := s.backend.Get(StateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, StateKey, err)
	}
	if ok {
		var st model.State
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, StateKey, err)
		}
		if st.Profiles == nil {
			st.Profiles = []model.Profile{}
		}
		return &st, nil
	}

	raw, ok, err = s.backend.Get(LegacyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, LegacyKey, err)
	}
	if !ok {
		return Empty(), nil
	}

	var legacy model.LegacyConfig
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, LegacyKey, err)
	}
	st := Migrate(legacy)
	if err := s.Save(st); err != nil {
		return nil, err
	}
	if err := s.backend.Delete(LegacyKey); err != nil {
		return nil, fmt.Errorf("%w: delete %s: %v", ErrStorage, LegacyKey, err)
	}
	logger.Log.Infof("Migrated legacy %s record (%d profile(s))", LegacyKey, len(st.Profiles))
	return st, nil
}

func (s *Store) Save(st *model.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: encode state: %v", ErrStorage, err)
	}
	if err := s.backend.Set(StateKey, raw); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, StateKey, err)
	}
	return nil
}

// Empty is the state of a fresh install.
func Empty() *model.State {
	return &model.State{Profiles: []model.Profile{}}
}

// Migrate converts a legacy record. Out-of-range ports fall back to the
// default port. A legacy record without a host yields no
// profiles, and then enabled is forced off so that an enabled engine always
// has something to route through.
func Migrate(old model.LegacyConfig) *model.State {
	if old.Host == "" {
		return Empty()
	}

	port := int(old.Port)
	if port < 1 || port > 65535 {
		port = model.DefaultPort
	}
	p := model.Profile{
		ID:       uuid.NewString(),
		Host:     old.Host,
		Port:     port,
		Username: old.Username,
		Password: old.Password,
	}
	p.Name = p.Address()

	id := p.ID
	return &model.State{
		Enabled:         bool(old.Enabled),
		ActiveProfileID: &id,
		Profiles:        []model.Profile{p},
	}
}
