package rmerr

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeAttrMissing, "missing required attribute %q", "name")
	if err.Code != CodeAttrMissing {
		t.Errorf("Code = %v, want %v", err.Code, CodeAttrMissing)
	}
	want := `ATTR_MISSING: missing required attribute "name"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(CodePlaceBlocked, cause, "cannot place register")

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not match cause with errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestAt(t *testing.T) {
	loc := Location{File: "uart.xml", Line: 12}

	err := At(New(CodeFreeText, "free text not allowed here"), loc)
	want := "uart.xml:12: STRUCT_FREE_TEXT: free text not allowed here"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	// The innermost location wins: re-stamping must not overwrite.
	outer := At(err, Location{File: "other.xml", Line: 99})
	if outer.Error() != want {
		t.Errorf("re-stamped Error() = %q, want %q", outer.Error(), want)
	}

	// Plain errors get wrapped with the location.
	plain := At(errors.New("boom"), loc)
	var e *Error
	if !errors.As(plain, &e) || e.File != "uart.xml" || e.Line != 12 {
		t.Errorf("At(plain) = %+v", plain)
	}

	if At(nil, loc) != nil {
		t.Error("At(nil) != nil")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := At(New(CodeDuplicate, "duplicate component %q", "uart"), Location{File: "a.xml", Line: 1})
	if !Is(err, CodeDuplicate) {
		t.Error("Is() = false, want true")
	}
	if Is(err, CodeUnbound) {
		t.Error("Is() matched wrong code")
	}
	if GetCode(err) != CodeDuplicate {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode(plain) != empty")
	}
}
