package sentry

import (
	"errors"
	"fmt"
	"testing"
)

type namedError struct{ msg string }

func (e *namedError) Error() string    { return e.msg }
func (e *namedError) TypeName() string { return "NamedError" }

func TestExceptionFrom_Error(t *testing.T) {
	ex := ExceptionFrom(errors.New("boom"))
	if ex == nil {
		t.Fatal("ExceptionFrom returned nil")
	}
	if ex.Type != "*errors.errorString" {
		t.Errorf("Type = %q, want %q", ex.Type, "*errors.errorString")
	}
	if ex.Value != "boom" {
		t.Errorf("Value = %q, want %q", ex.Value, "boom")
	}
}

func TestExceptionFrom_WrappedError(t *testing.T) {
	err := fmt.Errorf("query failed: %w", errors.New("connection reset"))
	ex := ExceptionFrom(err)
	if ex.Value != "query failed: connection reset" {
		t.Errorf("Value = %q, want the full error string", ex.Value)
	}
}

func TestExceptionFrom_TypeNamer(t *testing.T) {
	ex := ExceptionFrom(&namedError{msg: "named failure"})
	if ex.Type != "NamedError" {
		t.Errorf("Type = %q, want %q", ex.Type, "NamedError")
	}
	if ex.Value != "named failure" {
		t.Errorf("Value = %q, want %q", ex.Value, "named failure")
	}
}

func TestExceptionFrom_PanicValue(t *testing.T) {
	ex := ExceptionFrom("something broke")
	if ex.Type != "string" {
		t.Errorf("Type = %q, want %q", ex.Type, "string")
	}
	if ex.Value != "something broke" {
		t.Errorf("Value = %q, want %q", ex.Value, "something broke")
	}
}

func TestExceptionFrom_Nil(t *testing.T) {
	if ex := ExceptionFrom(nil); ex != nil {
		t.Errorf("ExceptionFrom(nil) = %v, want nil", ex)
	}
}
