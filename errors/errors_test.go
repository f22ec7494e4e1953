package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidInput,
				Path:   []string{"stride"},
				GoType: "Descriptor[float32]",
				Detail: "want 3 entries",
			},
			contains: []string{"[encode]", "invalid_input", "at stride", "Descriptor[float32]", " - want 3 entries"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindLayoutMismatch,
			},
			contains: []string{"[decode]", "layout_mismatch"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDispatch,
				Kind:   KindTrap,
				Detail: "kernel aborted",
				Cause:  errors.New("unreachable"),
			},
			contains: []string{"[dispatch]", "trap", ": kernel aborted", "caused by", "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidInput,
		Path:  []string{"n_particle"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidInput}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidInput}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("prepare call: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseEncode, Kind: KindInvalidInput}) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindInvalidInput).
		Path("n_particle").
		GoType("int64").
		Value(int64(-1)).
		Cause(cause).
		Detail("count %d is negative", -1).
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindInvalidInput {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
	}
	if len(err.Path) != 1 || err.Path[0] != "n_particle" {
		t.Errorf("Path = %v, want [n_particle]", err.Path)
	}
	if err.GoType != "int64" {
		t.Errorf("GoType = %v, want 'int64'", err.GoType)
	}
	if err.Value != int64(-1) {
		t.Errorf("Value = %v, want -1", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "count -1 is negative" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseEncode, "stride", 2, "want 3 entries")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
		if err.Path[0] != "stride" || err.Value != 2 {
			t.Errorf("Path=%v Value=%v", err.Path, err.Value)
		}
	})

	t.Run("LayoutMismatch", func(t *testing.T) {
		err := LayoutMismatch(PhaseDecode, "Descriptor[float64]", 39, 40)
		if err.Kind != KindLayoutMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLayoutMismatch)
		}
		if !strings.Contains(err.Detail, "39") || !strings.Contains(err.Detail, "40") {
			t.Errorf("Detail = %v, should contain both sizes", err.Detail)
		}
		if !err.Fatal() {
			t.Error("layout mismatch should be fatal")
		}
	})

	t.Run("FieldDrift", func(t *testing.T) {
		err := FieldDrift("Descriptor[float32]", "n_particle", 4, 8)
		if err.Phase != PhaseLayout || !err.Fatal() {
			t.Errorf("Phase=%v Fatal=%v", err.Phase, err.Fatal())
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDispatch, 65536, 40)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != uint32(65536) {
			t.Errorf("Value = %v, want 65536", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLoad, "export", "pmwd_probe")
		if err.Kind != KindNotFound || !strings.Contains(err.Detail, `"pmwd_probe"`) {
			t.Errorf("Kind=%v Detail=%v", err.Kind, err.Detail)
		}
	})

	t.Run("Trap", func(t *testing.T) {
		err := Trap("probe", errors.New("unreachable"))
		if err.Kind != KindTrap || err.Fatal() {
			t.Errorf("Kind=%v Fatal=%v", err.Kind, err.Fatal())
		}
	})
}

func TestIsFatal(t *testing.T) {
	mismatch := LayoutMismatch(PhaseDecode, "Descriptor[float32]", 16, 40)

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{nil, "nil", false},
		{errors.New("plain"), "plain error", false},
		{InvalidInput(PhaseEncode, "n_particle", -1, "negative"), "validation", false},
		{mismatch, "direct", true},
		{fmt.Errorf("decode: %w", mismatch), "fmt wrapped", true},
		{Wrap(PhaseDispatch, KindTrap, mismatch, "kernel aborted"), "cause chain", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}
