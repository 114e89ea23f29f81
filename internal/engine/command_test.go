package engine_test

import (
	"errors"
	"testing"

	"proxyswitch/internal/engine"
	"proxyswitch/internal/model"
)

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		msg  string
		want engine.Command
	}{
		{`{"type":"getState"}`, engine.GetState{}},
		{`{"type":"toggle"}`, engine.Toggle{}},
		{`{"type":"setActiveProfile","profileId":"x"}`, engine.SetActiveProfile{ProfileID: "x"}},
		{`{"type":"deleteProfile","profileId":"y"}`, engine.DeleteProfile{ProfileID: "y"}},
	}
	for _, tc := range cases {
		got, err := engine.DecodeCommand([]byte(tc.msg))
		if err != nil {
			t.Errorf("%s: %v", tc.msg, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %#v want %#v", tc.msg, got, tc.want)
		}
	}
}

func TestDecodeCommand_ProfilePayload(t *testing.T) {
	cmd, err := engine.DecodeCommand([]byte(`{"type":"updateProfile","profile":{"id":"p1","host":"h","port":"3128"}}`))
	if err != nil {
		t.Fatal(err)
	}
	up, ok := cmd.(engine.UpdateProfile)
	if !ok {
		t.Fatalf("got %T", cmd)
	}
	if up.ID != "p1" || up.Profile.Host == nil || *up.Profile.Host != "h" {
		t.Errorf("unexpected decode %+v", up)
	}
	if up.Profile.Port == nil || *up.Profile.Port != model.FlexPort(3128) {
		t.Errorf("string port not coerced: %v", up.Profile.Port)
	}
	if up.Profile.Name != nil || up.Profile.Username != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestDecodeCommand_Unknown(t *testing.T) {
	_, err := engine.DecodeCommand([]byte(`{"type":"reboot"}`))
	if !errors.Is(err, engine.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	e, _, _, _ := newEngine(t)

	res, err := e.Dispatch(engine.AddProfile{Profile: engine.ProfileFields{Host: str("h"), Port: port(3128)}})
	if err != nil {
		t.Fatal(err)
	}
	reply := res.(engine.Reply)
	if !reply.Success || reply.Profile == nil || reply.Profile.Host != "h" {
		t.Fatalf("unexpected add reply %+v", reply)
	}

	if _, err := e.Dispatch(engine.AddProfile{Profile: engine.ProfileFields{Port: port(99999)}}); engine.Kind(err) != "ValidationError" {
		t.Errorf("expected ValidationError, got %v", err)
	}

	if _, err := e.Dispatch(engine.Toggle{}); err != nil {
		t.Fatal(err)
	}
	res, _ = e.Dispatch(engine.GetState{})
	st := res.(*model.State)
	if !st.Enabled {
		t.Error("state should be enabled after toggle")
	}

	res, err = e.Dispatch(engine.DeleteProfile{ProfileID: reply.Profile.ID})
	if err != nil {
		t.Fatal(err)
	}
	del := res.(engine.Reply)
	if del.Enabled == nil || *del.Enabled {
		t.Errorf("delete of last profile should report enabled=false, got %+v", del)
	}

	if _, err := e.Dispatch(engine.Toggle{}); engine.Kind(err) != "NoActiveProfileError" {
		t.Errorf("expected NoActiveProfileError, got %v", err)
	}
	if _, err := e.Dispatch(engine.UpdateProfile{ID: "gone"}); engine.Kind(err) != "NotFoundError" {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
