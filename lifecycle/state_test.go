package lifecycle

import "testing"

func TestLabels(t *testing.T) {
	cases := map[StateID]string{
		Unknown:      "unknown",
		Unconfigured: "unconfigured",
		Inactive:     "inactive",
		Active:       "active",
		Finalized:    "finalized",
	}
	for id, want := range cases {
		if got := id.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", id, got, want)
		}
		if st := NewState(id); st.ID != id || st.Label != want {
			t.Errorf("NewState(%d) = %+v", id, st)
		}
	}
	if got := StateID(99).String(); got != "unknown" {
		t.Errorf("out of range label = %q", got)
	}
}

func TestFinalizedIsTerminal(t *testing.T) {
	for _, to := range []StateID{Unconfigured, Inactive, Active, Finalized} {
		if CanTransition(Finalized, to) {
			t.Errorf("transition finalized -> %s allowed", to)
		}
		if Path(Finalized, to) != nil && to != Finalized {
			t.Errorf("path out of finalized to %s", to)
		}
	}
}

func TestPaths(t *testing.T) {
	cases := []struct {
		from, to StateID
		want     []Transition
	}{
		{Unconfigured, Inactive, []Transition{Configure}},
		{Unconfigured, Active, []Transition{Configure, Activate}},
		{Inactive, Active, []Transition{Activate}},
		{Inactive, Unconfigured, []Transition{Cleanup}},
		{Active, Inactive, []Transition{Deactivate}},
		{Active, Unconfigured, []Transition{Deactivate, Cleanup}},
		{Unconfigured, Finalized, []Transition{Shutdown}},
		{Active, Finalized, []Transition{Shutdown}},
	}
	for _, tc := range cases {
		got := Path(tc.from, tc.to)
		if len(got) != len(tc.want) {
			t.Errorf("Path(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Path(%s, %s)[%d] = %s, want %s", tc.from, tc.to, i, got[i], tc.want[i])
			}
		}
	}

	if got := Path(Active, Active); len(got) != 0 || got == nil {
		t.Errorf("self path = %v, want empty non-nil", got)
	}
}
