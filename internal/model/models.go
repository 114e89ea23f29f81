package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const DefaultPort = 8080

// Profile is one named HTTP proxy endpoint.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Address returns "host:port".
func (p Profile) Address() string {
	return p.Host + ":" + strconv.Itoa(p.Port)
}

// Usable reports whether the profile can be a routing target.
func (p Profile) Usable() bool {
	return p.Host != ""
}

// HasCredentials reports whether the profile answers auth challenges.
func (p Profile) HasCredentials() bool {
	return p.Username != ""
}

// State is the persisted engine state (current schema).
type State struct {
	Enabled         bool      `json:"enabled"`
	ActiveProfileID *string   `json:"activeProfileId"`
	Profiles        []Profile `json:"profiles"`
}

// Clone returns a deep copy safe to hand out to readers.
func (s *State) Clone() *State {
	c := &State{Enabled: s.Enabled}
	if s.ActiveProfileID != nil {
		id := *s.ActiveProfileID
		c.ActiveProfileID = &id
	}
	c.Profiles = make([]Profile, len(s.Profiles))
	copy(c.Profiles, s.Profiles)
	return c
}

// ActiveID returns the active profile id or "" when none is set.
func (s *State) ActiveID() string {
	if s.ActiveProfileID == nil {
		return ""
	}
	return *s.ActiveProfileID
}

// LegacyConfig is the single-proxy record written by older releases.
type LegacyConfig struct {
	Host     string   `json:"host"`
	Port     FlexPort `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Enabled  Truthy   `json:"enabled"`
}

// FlexPort decodes a port given as a JSON number or a numeric string.
// Anything unparseable decodes to 0, which callers treat as "use the default".
type FlexPort int

func (p *FlexPort) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*p = FlexPort(int(t))
	case string:
		n, err := strconv.Atoi(leadingDigits(strings.TrimSpace(t)))
		if err != nil {
			*p = 0
		} else {
			*p = FlexPort(n)
		}
	default:
		*p = 0
	}
	return nil
}

// leadingDigits keeps an optional sign and the digits that follow it,
// so "3128abc" reads as 3128.
func leadingDigits(s string) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// Truthy decodes any JSON value into a boolean using loose truthiness:
// false, 0, "", null and missing are false, everything else is true.
type Truthy bool

func (b *Truthy) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = Truthy(t)
	case float64:
		*b = Truthy(t != 0)
	case string:
		*b = Truthy(t != "")
	case nil:
		*b = false
	default:
		*b = true
	}
	return nil
}

// Record is one key/value row of durable storage.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
