package app

import (
	"strings"
	"time"
)

// DefaultAccessCode unlocks every quiz that does not override it.
const DefaultAccessCode = "8888"

// GateErrorDuration is how long a rejected code stays flagged.
const GateErrorDuration = 2 * time.Second

// Gate is the soft paywall in front of a result. It is not a security
// boundary: one shared code, no counting, no lockout.
type Gate struct {
	code string
}

// NewGate returns a gate for the given code, or DefaultAccessCode when empty.
func NewGate(code string) Gate {
	if code == "" {
		code = DefaultAccessCode
	}
	return Gate{code: code}
}

// Check reports whether the trimmed input equals the code exactly.
func (g Gate) Check(input string) bool {
	return strings.TrimSpace(input) == g.code
}
