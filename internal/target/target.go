// Package target enumerates the code-generation backends a module can be
// compiled for.
package target

import (
	"fmt"
	"strings"
)

// Target identifies a backend.
type Target uint8

const (
	Erlang Target = iota + 1
	JavaScript
)

// All lists every backend in declaration order.
func All() []Target {
	return []Target{Erlang, JavaScript}
}

func (t Target) String() string {
	switch t {
	case Erlang:
		return "erlang"
	case JavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Parse converts a backend name to a Target. The short alias "js" is accepted.
func Parse(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erlang":
		return Erlang, nil
	case "javascript", "js":
		return JavaScript, nil
	default:
		return 0, fmt.Errorf("invalid target: %q (expected: erlang|javascript)", s)
	}
}

// UnmarshalText lets targets be decoded straight from configuration files.
func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Target) MarshalText() ([]byte, error) {
	if t != Erlang && t != JavaScript {
		return nil, fmt.Errorf("invalid target value %d", uint8(t))
	}
	return []byte(t.String()), nil
}
