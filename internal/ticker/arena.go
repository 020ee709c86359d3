// Package ticker hands out tokens for repeating UI timers.
//
// A Bubble Tea tick fires once and must be re-scheduled by the handler.
// Each tick message carries the token it was scheduled with; the handler
// re-schedules only while that token is still current. Start invalidates
// any previous token, so at most one chain of ticks is live per Arena.
package ticker

// Token identifies one chain of ticks.
type Token uint64

// Arena holds at most one active token.
type Arena struct {
	next   Token
	active Token
	starts int
}

// Start invalidates the current token and returns a new one.
func (a *Arena) Start() Token {
	a.next++
	a.active = a.next
	a.starts++
	return a.active
}

// Stop invalidates the current token.
func (a *Arena) Stop() {
	a.active = 0
}

// Active reports whether tok is the live token.
func (a *Arena) Active(tok Token) bool {
	return tok != 0 && tok == a.active
}

// Running reports whether any token is live.
func (a *Arena) Running() bool {
	return a.active != 0
}

// Starts returns how many chains were started.
func (a *Arena) Starts() int {
	return a.starts
}

// Current returns the live token, or zero when stopped.
func (a *Arena) Current() Token {
	return a.active
}
