package formlogic

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNotFound is returned when a mutation deletes a condition or join that
// does not exist.
var ErrNotFound = errors.New("not found")

// Vault provides lock-free reads of a rule set that can be replaced while
// other goroutines are evaluating it. Every batch of mutations is applied to
// a copy, which then replaces the current rule set in one step.
//
// Rule sets returned by Current must be treated as read-only.
type Vault struct {
	current atomic.Pointer[RuleSet]

	// serializes writers; readers never block
	mu sync.Mutex

	rejectCycles bool
}

// Mutation defines a single change to the rule set.
type Mutation struct {
	// Which table the mutation applies to.
	Kind LinkKind

	// Required; id of the condition or join being changed, added or removed.
	ID int

	// The condition to add or replace, for Kind == LinkCondition.
	// If nil, the condition with ID is deleted.
	Condition AnyCondition

	// The join to add or replace, for Kind == LinkJoin.
	// If nil, the join with ID is deleted.
	Join *Join
}

// VaultOption configures a Vault.
type VaultOption func(v *Vault)

// RejectCycles makes ApplyMutations refuse batches that leave a cycle in the
// join graph.
func RejectCycles() VaultOption {
	return func(v *Vault) {
		v.rejectCycles = true
	}
}

// NewVault creates a vault holding a copy of initial. If initial is nil, the
// vault starts with an empty rule set.
func NewVault(initial *RuleSet, opts ...VaultOption) (*Vault, error) {
	v := &Vault{}
	for _, opt := range opts {
		opt(v)
	}

	if initial == nil {
		initial = NewRuleSet()
	}
	rs := initial.Clone()
	if err := v.check(rs); err != nil {
		return nil, fmt.Errorf("initial rule set: %w", err)
	}
	v.current.Store(rs)
	return v, nil
}

// Current returns the current rule set.
func (v *Vault) Current() *RuleSet {
	return v.current.Load()
}

// ApplyMutations makes the changes to the rule set stored in the Vault.
// Either every mutation is applied or, on error, none is.
func (v *Vault) ApplyMutations(mutations []Mutation) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	rs := v.current.Load().Clone()
	for _, m := range mutations {
		if err := apply(rs, m); err != nil {
			return err
		}
	}

	if err := v.check(rs); err != nil {
		return err
	}

	v.current.Store(rs)
	return nil
}

func (v *Vault) check(rs *RuleSet) error {
	if !v.rejectCycles {
		return nil
	}
	if cycles := rs.Cycles(); len(cycles) > 0 {
		return &CycleError{Path: append(cycles[0], cycles[0][0])}
	}
	return nil
}

func apply(rs *RuleSet, m Mutation) error {
	switch m.Kind {
	case LinkCondition:
		if m.Condition == nil {
			if !rs.RemoveCondition(m.ID) {
				return fmt.Errorf("deleting condition %d: %w", m.ID, ErrNotFound)
			}
			return nil
		}
		if m.Condition.ConditionID() != m.ID {
			return fmt.Errorf("upserting condition %d: mutation carries condition %d", m.ID, m.Condition.ConditionID())
		}
		rs.conditions[m.ID] = m.Condition
		return nil

	case LinkJoin:
		if m.Join == nil {
			if !rs.RemoveJoin(m.ID) {
				return fmt.Errorf("deleting join %d: %w", m.ID, ErrNotFound)
			}
			return nil
		}
		if m.Join.ID != m.ID {
			return fmt.Errorf("upserting join %d: mutation carries join %d", m.ID, m.Join.ID)
		}
		j := *m.Join
		rs.joins[m.ID] = &j
		return nil

	default:
		return fmt.Errorf("mutation %d: unknown kind %s", m.ID, m.Kind)
	}
}
