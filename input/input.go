// Package input maps host key identifiers onto guest button codes.
package input

import (
	agbhost "github.com/aheraud/agb-host"
)

// bindings is the fixed key table: arrows for the d-pad, x/z/c/v for
// A/B/Select/Start. Remapping is deliberately not supported.
var bindings = map[string]agbhost.Button{
	"ArrowUp":    agbhost.ButtonUp,
	"ArrowDown":  agbhost.ButtonDown,
	"ArrowLeft":  agbhost.ButtonLeft,
	"ArrowRight": agbhost.ButtonRight,
	"x":          agbhost.ButtonA,
	"z":          agbhost.ButtonB,
	"c":          agbhost.ButtonSelect,
	"v":          agbhost.ButtonStart,
}

// Map returns the button bound to a host key identifier. Unmapped keys
// return ok == false and must produce no guest call; they are not an error.
func Map(key string) (code agbhost.Button, ok bool) {
	code, ok = bindings[key]
	return code, ok
}

// Keys returns the mapped host key identifiers. Order is unspecified.
func Keys() []string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	return keys
}
