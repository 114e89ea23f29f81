package engine

import (
	"encoding/json"
	"fmt"

	"proxyswitch/internal/model"
)

// Command is one request of the engine's message API. The set of
// implementations is closed.
type Command interface {
	command()
}

type GetState struct{}

type Toggle struct{}

type SetActiveProfile struct {
	ProfileID string
}

type AddProfile struct {
	Profile ProfileFields
}

type UpdateProfile struct {
	ID      string
	Profile ProfileFields
}

// DeleteProfile is a no-op for unknown ids.
type DeleteProfile struct {
	ProfileID string
}

func (GetState) command()         {}
func (Toggle) command()           {}
func (SetActiveProfile) command() {}
func (AddProfile) command()       {}
func (UpdateProfile) command()    {}
func (DeleteProfile) command()    {}

// Reply is the success payload of every command except GetState, which
// answers with the full *model.State.
type Reply struct {
	Success bool           `json:"success"`
	Enabled *bool          `json:"enabled,omitempty"`
	Profile *model.Profile `json:"profile,omitempty"`
}

// Dispatch runs cmd and returns its JSON-encodable result.
func (e *Engine) Dispatch(cmd Command) (interface{}, error) {
	switch c := cmd.(type) {
	case GetState:
		return e.Snapshot(), nil
	case Toggle:
		enabled, err := e.Toggle()
		if err != nil {
			return nil, err
		}
		return struct {
			Enabled bool `json:"enabled"`
		}{enabled}, nil
	case SetActiveProfile:
		if err := e.SetActiveProfile(c.ProfileID); err != nil {
			return nil, err
		}
		return Reply{Success: true}, nil
	case AddProfile:
		p, err := e.AddProfile(c.Profile)
		if err != nil {
			return nil, err
		}
		return Reply{Success: true, Profile: &p}, nil
	case UpdateProfile:
		if err := e.UpdateProfile(c.ID, c.Profile); err != nil {
			return nil, err
		}
		return Reply{Success: true}, nil
	case DeleteProfile:
		enabled, err := e.DeleteProfile(c.ProfileID)
		if err != nil {
			return nil, err
		}
		return Reply{Success: true, Enabled: &enabled}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

type message struct {
	Type      string          `json:"type"`
	ProfileID string          `json:"profileId"`
	Profile   json.RawMessage `json:"profile"`
}

type profilePayload struct {
	ID string `json:"id"`
	ProfileFields
}

// DecodeCommand reads a {"type": ..., ...} message.
func DecodeCommand(data []byte) (Command, error) {
	var m message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var payload profilePayload
	if len(m.Profile) > 0 {
		if err := json.Unmarshal(m.Profile, &payload); err != nil {
			return nil, fmt.Errorf("%w: profile: %v", ErrValidation, err)
		}
	}

	switch m.Type {
	case "getState":
		return GetState{}, nil
	case "toggle":
		return Toggle{}, nil
	case "setActiveProfile":
		return SetActiveProfile{ProfileID: m.ProfileID}, nil
	case "addProfile":
		return AddProfile{Profile: payload.ProfileFields}, nil
	case "updateProfile":
		return UpdateProfile{ID: payload.ID, Profile: payload.ProfileFields}, nil
	case "deleteProfile":
		return DeleteProfile{ProfileID: m.ProfileID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, m.Type)
	}
}
