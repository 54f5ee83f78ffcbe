// Package dispatch interprets the action hints the agent attaches to a chat
// reply and turns them into secondary effects outside the transcript.
package dispatch

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
)

// Known action_needed values
const (
	ActionSearchModels   = "search_models"
	ActionComputeDrift   = "compute_drift"
	ActionGeneratePuzzle = "generate_puzzle"
)

// SearchDelay is how long a hinted model search waits before running
const SearchDelay = 500 * time.Millisecond

// EffectKind identifies what a dispatched hint does
type EffectKind int

const (
	EffectNone    EffectKind = iota // nothing to do
	EffectSearch                    // pre-fill and run a model search
	EffectSuggest                   // show a suggestion notice
)

// Effect is the outcome of interpreting one reply
type Effect struct {
	Kind   EffectKind
	Action string
	Query  string
	Delay  time.Duration
	Notice string
}

// Dispatcher maps hints to effects
type Dispatcher struct {
	delay time.Duration
	log   *logrus.Entry
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithDelay overrides the search delay
func WithDelay(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.delay = d
	}
}

// WithLogger sets the log entry for dispatch decisions
func WithLogger(entry *logrus.Entry) Option {
	return func(disp *Dispatcher) {
		disp.log = entry
	}
}

// New creates a Dispatcher
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{delay: SearchDelay}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logging.Component("dispatch")
	}
	return d
}

// Dispatch interprets reply.ActionNeeded. Unknown or incomplete hints give
// EffectNone and are only logged.
func (d *Dispatcher) Dispatch(reply *models.ChatReply) Effect {
	if reply == nil || reply.ActionNeeded == "" {
		return Effect{Kind: EffectNone}
	}

	action := reply.ActionNeeded
	log := d.log.WithField("action", action)

	switch action {
	case ActionSearchModels:
		query := strings.TrimSpace(reply.Query)
		if query == "" {
			log.Debug("search hint without query ignored")
			return Effect{Kind: EffectNone, Action: action}
		}
		log.WithField("query", query).Info("scheduling model search")
		return Effect{Kind: EffectSearch, Action: action, Query: query, Delay: d.delay}

	case ActionComputeDrift:
		log.Info("agent suggests computing drift")
		return Effect{Kind: EffectSuggest, Action: action, Notice: "Agent suggests computing drift"}

	case ActionGeneratePuzzle:
		log.Info("agent suggests generating puzzle")
		return Effect{Kind: EffectSuggest, Action: action, Notice: "Agent suggests generating puzzle"}

	default:
		log.Debug("unknown action hint ignored")
		return Effect{Kind: EffectNone, Action: action}
	}
}

// Schedule fires fn with the effect after its delay without blocking the
// caller. The returned function cancels a pending effect. EffectNone never fires.
func (d *Dispatcher) Schedule(e Effect, fn func(Effect)) (cancel func()) {
	if e.Kind == EffectNone || fn == nil {
		return func() {}
	}
	if e.Delay <= 0 {
		go fn(e)
		return func() {}
	}
	t := time.AfterFunc(e.Delay, func() { fn(e) })
	return func() { t.Stop() }
}
