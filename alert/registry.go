// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alert

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Registry is the process-wide, read-only-after-init catalog of alert
// kinds. Create one with NewRegistry; the zero value has no maps and
// cannot receive kinds.
type Registry struct {
	kinds map[string]*Kind
	order []string

	// invalidatedBy[code] is the set of codes that invalidate code in
	// the final feature table.
	invalidatedBy map[string]map[string]bool

	// excKeys is the auxiliary reverse map from a feature/model's
	// "<alertkey>_exc" field name to the kind that declares it,
	// kept so exception-field validation at feature load is
	// O(fields) rather than O(fields x codes).
	excKeys map[string]*Kind
}

// NewRegistry returns an empty registry ready to receive kinds.
func NewRegistry() *Registry {
	return &Registry{
		kinds:         make(map[string]*Kind),
		invalidatedBy: make(map[string]map[string]bool),
		excKeys:       make(map[string]*Kind),
	}
}

// Add registers k, assigning it the next monotonic order. Duplicate
// codes and kinds that fail their own invariants are rejected.
func (r *Registry) Add(k Kind) error {
	if err := k.validate(); err != nil {
		return err
	}
	if _, ok := r.kinds[k.Code]; ok {
		return fmt.Errorf("alert: duplicate code %q", k.Code)
	}
	if k.ExcKey != "" {
		if prev, ok := r.excKeys[k.ExcKey]; ok && prev.ExcType != k.ExcType {
			return fmt.Errorf("alert: %s: exc_key %q already declared by %s with a different exc_type", k.Code, k.ExcKey, prev.Code)
		}
	}
	k.order = len(r.order)
	if k.FtblInvalidBy == nil {
		k.FtblInvalidBy = make(map[string]bool)
	}
	kk := k
	r.kinds[k.Code] = &kk
	r.order = append(r.order, k.Code)
	if _, ok := r.excKeys[kk.ExcKey]; kk.ExcKey != "" && !ok {
		r.excKeys[kk.ExcKey] = &kk
	}
	return nil
}

// ExcKind returns the kind declaring excKey as its exc_key, for
// validating a feature or model's "<alertkey>_exc" fields against
// the registry.
func (r *Registry) ExcKind(excKey string) (*Kind, error) {
	k, ok := r.excKeys[excKey]
	if !ok {
		return nil, fmt.Errorf("alert: unknown exception key %q", excKey)
	}
	return k, nil
}

// Kind returns the registered kind for code.
func (r *Registry) Kind(code string) (*Kind, error) {
	k, ok := r.kinds[code]
	if !ok {
		return nil, fmt.Errorf("alert: unknown code %q", code)
	}
	return k, nil
}

// Codes returns every registered code in insertion order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SetInvalidatedBy records that each of invalidators, when present,
// hides code in feature-table output. Each invalidator must
// exist, differ from code, and itself cause failure.
func (r *Registry) SetInvalidatedBy(code string, invalidators []string) error {
	k, err := r.Kind(code)
	if err != nil {
		return err
	}
	for _, inv := range invalidators {
		if inv == code {
			return fmt.Errorf("alert: %s: cannot be invalidated by itself", code)
		}
		ik, err := r.Kind(inv)
		if err != nil {
			return fmt.Errorf("alert: %s: invalidated_by %w", code, err)
		}
		if !ik.CausesFailure {
			return fmt.Errorf("alert: %s: invalidator %s does not cause failure", code, inv)
		}
	}
	if r.invalidatedBy[code] == nil {
		r.invalidatedBy[code] = make(map[string]bool)
	}
	for _, inv := range invalidators {
		r.invalidatedBy[code][inv] = true
		k.FtblInvalidBy[inv] = true
	}
	return r.checkAcyclic()
}

// SetCausesFailure overrides code's default fatality.
func (r *Registry) SetCausesFailure(code string, v bool) error {
	k, err := r.Kind(code)
	if err != nil {
		return err
	}
	k.CausesFailure = v
	return nil
}

// SetMiscNotFailure overrides code's demotability by a feature's own
// misc_not_failure flag.
func (r *Registry) SetMiscNotFailure(code string, v bool) error {
	k, err := r.Kind(code)
	if err != nil {
		return err
	}
	if k.PerType != Feature {
		return fmt.Errorf("alert: %s: misc_not_failure only legal for per_type=feature", code)
	}
	k.MiscNotFailure = v
	return nil
}

// FeatureAlertCausesFailure reports whether code is fatal against a
// feature carrying miscNotFailure.
func (r *Registry) FeatureAlertCausesFailure(code string, miscNotFailure bool) (bool, error) {
	k, err := r.Kind(code)
	if err != nil {
		return false, err
	}
	return k.CausesFailure && !(miscNotFailure && k.MiscNotFailure), nil
}

// checkAcyclic verifies the invalidated_by relation has no cycles
// via a topological sort of the invalidation graph.
func (r *Registry) checkAcyclic() error {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64)
	for i, code := range r.order {
		id := int64(i)
		ids[code] = id
		g.AddNode(simpleNode(id))
	}
	for code, invs := range r.invalidatedBy {
		for inv := range invs {
			g.SetEdge(simple.Edge{F: simpleNode(ids[code]), T: simpleNode(ids[inv])})
		}
	}
	_, err := topo.Sort(g)
	if err != nil {
		var codes []string
		for code := range r.invalidatedBy {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return fmt.Errorf("alert: invalidated_by relation contains a cycle involving one of %v: %w", codes, err)
	}
	return nil
}

type simpleNode int64

func (n simpleNode) ID() int64 { return int64(n) }

var _ graph.Node = simpleNode(0)
