// Package phase defines the closed, ordered set of build phases that passes
// are scheduled into.
package phase

import (
	"fmt"
	"strings"
)

// BuildPhase identifies one coarse-grained stage of a build. The zero value is
// not a valid phase.
type BuildPhase int

const (
	Resolving BuildPhase = iota + 1
	Generating
	Transforming
	Optimizing
)

var builtIn = [...]BuildPhase{Resolving, Generating, Transforming, Optimizing}

var names = map[BuildPhase]string{
	Resolving:    "Resolving",
	Generating:   "Generating",
	Transforming: "Transforming",
	Optimizing:   "Optimizing",
}

// BuiltIn returns every built-in phase in execution order. The returned slice
// is a fresh copy and may be modified by the caller.
func BuiltIn() []BuildPhase {
	out := make([]BuildPhase, len(builtIn))
	copy(out, builtIn[:])
	return out
}

// String returns the canonical name of the phase.
func (p BuildPhase) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("BuildPhase(%d)", int(p))
}

// Valid reports whether p is one of the built-in phases.
func (p BuildPhase) Valid() bool {
	_, ok := names[p]
	return ok
}

// Parse converts a phase name into a BuildPhase. Matching is case-insensitive.
func Parse(s string) (BuildPhase, error) {
	for _, p := range builtIn {
		if strings.EqualFold(names[p], strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown build phase %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p BuildPhase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid build phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BuildPhase) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
