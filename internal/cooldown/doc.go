// Package cooldown implements the post-outcome countdown that gates when the
// next assignment may be requested.
//
// The scheduler is a two-state machine, Idle → Running(remaining) → Idle,
// driven by an injected clock ticker so tests run without wall-clock delays.
// Starting while already running cancels the previous countdown and restarts
// at full duration; countdowns never stack.
package cooldown
