// Package gesture implements the hold-to-start timing state machine.
//
// The controller is fed hold-begin and hold-end events carrying the time
// they happened. A hold that lasts at least the hold threshold arms the
// timer and starts it on release; the next hold-begin stops it, reports the
// elapsed duration and immediately arms again for the following attempt.
package gesture

import "time"

// DefaultHold is the minimum hold before a release starts the timer.
const DefaultHold = 2000 * time.Millisecond

// State is the current phase of the gesture.
type State int

// Gesture states.
const (
	Idle State = iota
	Armed
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// EventKind distinguishes hold-begin from hold-end.
type EventKind int

// Event kinds.
const (
	HoldBegin EventKind = iota
	HoldEnd
)

func (k EventKind) String() string {
	if k == HoldBegin {
		return "hold-begin"
	}
	return "hold-end"
}

// Event is a timestamped input from the action key.
type Event struct {
	Kind EventKind
	At   time.Time
}

// Outcome describes what a single event did.
type Outcome struct {
	From State
	To   State
	// Completed is set when a running solve was stopped.
	Completed bool
	Elapsed   time.Duration
	// Started is set when the timer began running.
	Started bool
	// Aborted is set when an armed hold was released too early.
	Aborted bool
}

// Changed reports whether the event moved the controller to another state.
func (o Outcome) Changed() bool {
	return o.From != o.To
}

type transitionKey struct {
	state State
	kind  EventKind
}

type transition func(c *Controller, at time.Time) Outcome

var transitions = map[transitionKey]transition{
	{Idle, HoldBegin}:    (*Controller).arm,
	{Armed, HoldEnd}:     (*Controller).release,
	{Running, HoldBegin}: (*Controller).stop,
}

// Controller tracks the gesture state. It is not safe for concurrent use.
type Controller struct {
	hold      time.Duration
	state     State
	armedAt   time.Time
	startedAt time.Time
	last      time.Duration
}

// New returns an idle controller with the given hold threshold.
func New(hold time.Duration) *Controller {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Controller{hold: hold}
}

// Handle applies an event. Pairs without a transition are ignored.
func (c *Controller) Handle(ev Event) Outcome {
	fn, ok := transitions[transitionKey{state: c.state, kind: ev.Kind}]
	if !ok {
		return Outcome{From: c.state, To: c.state}
	}
	return fn(c, ev.At)
}

// Abort drops an armed hold without starting the timer.
func (c *Controller) Abort() Outcome {
	if c.state != Armed {
		return Outcome{From: c.state, To: c.state}
	}
	c.state = Idle
	c.armedAt = time.Time{}
	return Outcome{From: Armed, To: Idle, Aborted: true}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Hold returns the hold threshold.
func (c *Controller) Hold() time.Duration {
	return c.hold
}

// SetHold changes the hold threshold. It applies to the current hold too.
func (c *Controller) SetHold(hold time.Duration) {
	if hold > 0 {
		c.hold = hold
	}
}

// Ready reports whether an armed hold has lasted long enough to start.
func (c *Controller) Ready(now time.Time) bool {
	return c.state == Armed && now.Sub(c.armedAt) >= c.hold
}

// Display returns the elapsed time to show at now.
func (c *Controller) Display(now time.Time) time.Duration {
	if c.state == Running {
		if d := now.Sub(c.startedAt); d > 0 {
			return d
		}
		return 0
	}
	return c.last
}

func (c *Controller) arm(at time.Time) Outcome {
	c.state = Armed
	c.armedAt = at
	c.last = 0
	return Outcome{From: Idle, To: Armed}
}

func (c *Controller) release(at time.Time) Outcome {
	if at.Sub(c.armedAt) < c.hold {
		c.state = Idle
		c.armedAt = time.Time{}
		return Outcome{From: Armed, To: Idle, Aborted: true}
	}
	c.state = Running
	c.startedAt = at
	c.last = 0
	return Outcome{From: Armed, To: Running, Started: true}
}

func (c *Controller) stop(at time.Time) Outcome {
	elapsed := at.Sub(c.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	c.last = elapsed
	c.state = Armed
	c.armedAt = at
	c.startedAt = time.Time{}
	return Outcome{From: Running, To: Armed, Completed: true, Elapsed: elapsed}
}
