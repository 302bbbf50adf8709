package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserError(t *testing.T) {
	err := Userf("bad flag %q", "--x")
	if !IsUser(err) {
		t.Fatalf("expected user error")
	}
	if !IsUser(fmt.Errorf("wrap: %w", err)) {
		t.Fatalf("expected wrapped user error to match")
	}
	if err.Error() != `bad flag "--x"` {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestConversionErrors_As(t *testing.T) {
	wrapped := fmt.Errorf("convert: %w", Missing("processInformation.dataSetInformation.UUID"))
	if !IsMissingField(wrapped) {
		t.Fatalf("expected missing field error")
	}
	var mf *MissingFieldError
	if !errors.As(wrapped, &mf) || mf.Field != "processInformation.dataSetInformation.UUID" {
		t.Fatalf("unexpected field: %+v", mf)
	}

	cause := errors.New("boom")
	re := &ResolutionError{Step: "unit group", Err: cause}
	if !IsResolution(fmt.Errorf("x: %w", re)) {
		t.Fatalf("expected resolution error")
	}
	if !errors.Is(re, cause) {
		t.Fatalf("expected unwrap to reach cause")
	}
	if (&ResolutionError{Step: "unit"}).Error() != "resolve unit failed" {
		t.Fatalf("unexpected message without cause")
	}

	ie := &IndexOutOfRangeError{Index: 12, Len: 11}
	if ie.Error() != "index 12 out of range [0,11)" {
		t.Fatalf("message = %q", ie.Error())
	}

	me := &MalformedValueError{Field: "GWP/A1", Value: "n/a"}
	if me.Error() != `malformed value "n/a" for GWP/A1` {
		t.Fatalf("message = %q", me.Error())
	}
}
