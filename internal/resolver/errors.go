package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
)

var (
	ErrDuplicatePassKey      = errors.New("duplicate pass key")
	ErrCrossPhaseConstraint  = errors.New("cannot constrain passes in different phases")
	ErrCyclicConstraintGraph = errors.New("pass constraints form a cycle")
)

// DuplicatePassKeyError reports two declarations sharing a key.
type DuplicatePassKeyError struct {
	Key          passkey.Key
	FirstPlugin  string
	SecondPlugin string
}

func (e *DuplicatePassKeyError) Error() string {
	return fmt.Sprintf("%s: %s declared by %s and %s", ErrDuplicatePassKey, e.Key, e.FirstPlugin, e.SecondPlugin)
}

func (e *DuplicatePassKeyError) Unwrap() error { return ErrDuplicatePassKey }

// CrossPhaseConstraintError reports a constraint whose endpoints live in
// different phases.
type CrossPhaseConstraintError struct {
	First       passkey.Key
	Second      passkey.Key
	FirstPhase  phase.BuildPhase
	SecondPhase phase.BuildPhase
}

func (e *CrossPhaseConstraintError) Error() string {
	return fmt.Sprintf("%s: %s (%s) and %s (%s)", ErrCrossPhaseConstraint, e.First, e.FirstPhase, e.Second, e.SecondPhase)
}

func (e *CrossPhaseConstraintError) Unwrap() error { return ErrCrossPhaseConstraint }

// CyclicConstraintGraphError reports a phase whose passes cannot be ordered.
type CyclicConstraintGraphError struct {
	Phase phase.BuildPhase
	// Remaining holds every pass left unordered when the sort stalled.
	Remaining []passkey.Key
	// Cycle is one concrete cycle among Remaining.
	Cycle []passkey.Key
}

func (e *CyclicConstraintGraphError) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, k := range e.Cycle {
		parts = append(parts, k.String())
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, e.Cycle[0].String())
	}
	return fmt.Sprintf("%s in phase %s: %s (%d passes unordered)", ErrCyclicConstraintGraph, e.Phase, strings.Join(parts, " -> "), len(e.Remaining))
}

func (e *CyclicConstraintGraphError) Unwrap() error { return ErrCyclicConstraintGraph }
