package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(PhaseClaim, KindAlreadyClaimed).
		Component("joint1").
		Interface("joint1/position").
		Detail("claimed by another loan").
		Build()

	got := err.Error()
	for _, want := range []string{"[claim]", "already_claimed", "joint1/position", "claimed by another loan"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestErrorIsMatchesPhaseAndKind(t *testing.T) {
	err := Unavailable("sensor1/velocity")

	if !stderrors.Is(err, &Error{Phase: PhaseClaim, Kind: KindUnavailable}) {
		t.Error("expected match on phase and kind")
	}
	if !stderrors.Is(err, &Error{Kind: KindUnavailable}) {
		t.Error("expected match on kind alone")
	}
	if stderrors.Is(err, &Error{Kind: KindNotFound}) {
		t.Error("unexpected match on different kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Load("constructing mockhw/actuator", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound(PhaseClaim, "interface", "joint1/nonexistent")
	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
	}
	if !strings.Contains(err.Error(), "joint1/nonexistent") {
		t.Errorf("Error() = %q, missing interface name", err.Error())
	}
}
