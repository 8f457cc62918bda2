// Package visibility resolves the per-field state rules a view attaches to
// its fields (showIf, hideIf, readonlyIf, requiredIf, validIf).
package visibility

import (
	"fmt"
	"strings"
)

// Evaluator determines whether a rule holds for a field given the current
// record values and any extra bindings.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values is the record being
// displayed while Extras carries caller bindings such as the parent record
// or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Rules are the conditional attributes of a field. Blank rules do not apply.
type Rules struct {
	ShowIf     string `json:"showIf,omitempty" yaml:"showIf,omitempty"`
	HideIf     string `json:"hideIf,omitempty" yaml:"hideIf,omitempty"`
	ReadonlyIf string `json:"readonlyIf,omitempty" yaml:"readonlyIf,omitempty"`
	RequiredIf string `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`
	ValidIf    string `json:"validIf,omitempty" yaml:"validIf,omitempty"`
}

// Empty reports whether no rule is set.
func (r Rules) Empty() bool {
	return strings.TrimSpace(r.ShowIf) == "" &&
		strings.TrimSpace(r.HideIf) == "" &&
		strings.TrimSpace(r.ReadonlyIf) == "" &&
		strings.TrimSpace(r.RequiredIf) == "" &&
		strings.TrimSpace(r.ValidIf) == ""
}

// State is the resolved field state.
type State struct {
	Hidden   bool `json:"hidden,omitempty"`
	Readonly bool `json:"readonly,omitempty"`
	Required bool `json:"required,omitempty"`
	Invalid  bool `json:"invalid,omitempty"`
}

// Resolve evaluates rules for the field at path. A field is hidden when
// hideIf holds or showIf does not; invalid when validIf does not hold.
func Resolve(path string, rules Rules, evaluator Evaluator, ctx Context) (State, error) {
	var state State
	if evaluator == nil || rules.Empty() {
		return state, nil
	}

	check := func(attr, rule string) (bool, bool, error) {
		if strings.TrimSpace(rule) == "" {
			return false, false, nil
		}
		ok, err := evaluator.Eval(path, rule, ctx)
		if err != nil {
			return false, true, fmt.Errorf("visibility: %s %s: %w", path, attr, err)
		}
		return ok, true, nil
	}

	show, showSet, err := check("showIf", rules.ShowIf)
	if err != nil {
		return State{}, err
	}
	hide, _, err := check("hideIf", rules.HideIf)
	if err != nil {
		return State{}, err
	}
	readonly, _, err := check("readonlyIf", rules.ReadonlyIf)
	if err != nil {
		return State{}, err
	}
	required, _, err := check("requiredIf", rules.RequiredIf)
	if err != nil {
		return State{}, err
	}
	valid, validSet, err := check("validIf", rules.ValidIf)
	if err != nil {
		return State{}, err
	}

	state.Hidden = hide || (showSet && !show)
	state.Readonly = readonly
	state.Required = required
	state.Invalid = validSet && !valid
	return state, nil
}
