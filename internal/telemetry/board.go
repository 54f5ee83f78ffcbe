package telemetry

import "time"

// Board mirrors the latest applied result per feed. Completions stamped
// older than the newest applied one are discarded, so a slow response can
// never overwrite a fresher panel. Board is not safe for concurrent use;
// apply results from one goroutine.
type Board struct {
	latest map[Kind]Result
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{latest: make(map[Kind]Result)}
}

// Accept applies r unless a newer result for the same feed was already
// applied. It reports whether r was applied.
func (b *Board) Accept(r Result) bool {
	if cur, ok := b.latest[r.Kind]; ok && r.Seq <= cur.Seq {
		return false
	}
	b.latest[r.Kind] = r
	return true
}

// Get returns the latest result for kind
func (b *Board) Get(kind Kind) (Result, bool) {
	r, ok := b.latest[kind]
	return r, ok
}

// LastSuccess returns the time of the latest OK result for kind
func (b *Board) LastSuccess(kind Kind) (time.Time, bool) {
	r, ok := b.latest[kind]
	if !ok || r.Outcome != OutcomeOK {
		return time.Time{}, false
	}
	return r.At, true
}
