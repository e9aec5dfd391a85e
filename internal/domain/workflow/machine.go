package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Guard decides at fire time whether a transition may be taken
type Guard func(ctx context.Context) bool

// Transition records one state change of a machine
type Transition struct {
	From    State     `json:"from"`
	To      State     `json:"to"`
	Trigger Trigger   `json:"trigger"`
	At      time.Time `json:"at"`
}

type edge struct {
	to    State
	guard Guard
}

// Builder collects the transition table of a machine
type Builder struct {
	edges map[State]map[Trigger][]edge
}

// StateConfig adds the outgoing transitions of one state
type StateConfig struct {
	from  State
	edges map[Trigger][]edge
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{edges: make(map[State]map[Trigger][]edge)}
}

// Configure returns the configuration of state. It panics on an unknown
// state since tables are built at startup.
func (b *Builder) Configure(state State) *StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if b.edges[state] == nil {
		b.edges[state] = make(map[Trigger][]edge)
	}
	return &StateConfig{from: state, edges: b.edges[state]}
}

// Permit adds an unconditional transition
func (c *StateConfig) Permit(trigger Trigger, to State) *StateConfig {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf adds a transition taken only when guard passes. Transitions for
// the same trigger are tried in the order they were added.
func (c *StateConfig) PermitIf(trigger Trigger, to State, guard Guard) *StateConfig {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	if c.from.IsTerminal() {
		panic(fmt.Sprintf("terminal state %s cannot have transitions", c.from))
	}
	c.edges[trigger] = append(c.edges[trigger], edge{to: to, guard: guard})
	return c
}

// Build returns a machine in initial that owns a copy of the table
func (b *Builder) Build(initial State) *Machine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}

	table := make(map[State]map[Trigger][]edge, len(b.edges))
	for state, byTrigger := range b.edges {
		copied := make(map[Trigger][]edge, len(byTrigger))
		for trigger, edges := range byTrigger {
			copied[trigger] = append([]edge(nil), edges...)
		}
		table[state] = copied
	}

	return &Machine{
		state: initial,
		table: table,
		now:   time.Now,
	}
}

// Machine tracks the state of one run. It is not safe for concurrent use.
type Machine struct {
	state   State
	table   map[State]map[Trigger][]edge
	history []Transition
	now     func() time.Time
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// CanFire reports whether trigger would succeed now, evaluating guards
func (m *Machine) CanFire(ctx context.Context, trigger Trigger) bool {
	_, ok := m.next(ctx, trigger)
	return ok
}

// Fire moves the machine along trigger
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	edges := m.table[m.state][trigger]
	if len(edges) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.state)
	}

	to, ok := m.next(ctx, trigger)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.state)
	}

	m.history = append(m.history, Transition{
		From:    m.state,
		To:      to,
		Trigger: trigger,
		At:      m.now(),
	})
	m.state = to
	return nil
}

func (m *Machine) next(ctx context.Context, trigger Trigger) (State, bool) {
	for _, e := range m.table[m.state][trigger] {
		if e.guard == nil || e.guard(ctx) {
			return e.to, true
		}
	}
	return "", false
}

// PermittedTriggers lists the configured triggers of the current state in
// lexical order, without evaluating guards
func (m *Machine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.table[m.state]))
	for trigger := range m.table[m.state] {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}

// History returns the transitions taken so far
func (m *Machine) History() []Transition {
	return append([]Transition(nil), m.history...)
}
