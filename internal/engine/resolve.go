package engine

import "proxyswitch/internal/model"

// ActiveProfile returns the profile selected by st.ActiveProfileID. A dangling
// id resolves to nothing rather than failing.
func ActiveProfile(st *model.State) (model.Profile, bool) {
	if st == nil || st.ActiveProfileID == nil {
		return model.Profile{}, false
	}
	for _, p := range st.Profiles {
		if p.ID == *st.ActiveProfileID {
			return p, true
		}
	}
	return model.Profile{}, false
}

// proxying reports whether requests should currently go through a proxy.
func proxying(st *model.State) bool {
	if st == nil || !st.Enabled {
		return false
	}
	p, ok := ActiveProfile(st)
	return ok && p.Usable()
}

func indexOf(st *model.State, id string) int {
	for i, p := range st.Profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}
