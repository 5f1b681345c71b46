// exception.go adapts Go errors and panic values to the wire exception shape.

package sentry

import (
	"fmt"
	"reflect"
)

// Exception describes the error that caused an event. On the wire it is
// encoded as a single-element list under the "exception" key.
type Exception struct {
	// Type is the error's type name.
	Type string `json:"type"`

	// Value is the error's display string.
	Value string `json:"value"`
}

// TypeNamer lets an error choose the type name reported for it, overriding
// the reflected Go type.
type TypeNamer interface {
	TypeName() string
}

// ExceptionFrom builds an Exception from any value: an error, a recovered
// panic value, or anything else a caller wants reported. Errors use their
// Error() string as the value; other values are formatted with fmt.
func ExceptionFrom(v any) *Exception {
	if v == nil {
		return nil
	}

	ex := &Exception{}

	if namer, ok := v.(TypeNamer); ok {
		ex.Type = namer.TypeName()
	} else if err, ok := v.(error); ok {
		ex.Type = reflect.TypeOf(err).String()
	} else {
		ex.Type = fmt.Sprintf("%T", v)
	}

	if err, ok := v.(error); ok {
		ex.Value = err.Error()
	} else {
		ex.Value = fmt.Sprintf("%v", v)
	}

	return ex
}
