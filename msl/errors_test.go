package msl

import "testing"

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrInvalidInterface, "InvalidInterface"},
		{ErrInvalidOpcodeArg, "InvalidOpcodeArg"},
		{ErrUnsupportedType, "UnsupportedType"},
		{ErrCompilationOverflow, "CompilationOverflow"},
		{ErrQueryOpaqueLayout, "QueryOpaqueLayout"},
		{ErrInvalidModule, "InvalidModule"},
		{ErrInternalError, "InternalError"},
		{ErrorKind(200), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	err := NewError(ErrInvalidInterface, "matrix in fragment input")
	want := "msl InvalidInterface: matrix in fragment input"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(ErrInvalidOpcodeArg, "component %d out of range", 7)
	if err.Message != "component 7 out of range" {
		t.Errorf("Message = %q", err.Message)
	}
}
