// Package telemetry polls the backend's snapshot endpoints on fixed
// intervals and delivers sequence-stamped results to a sink.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diogo/ladderweb/internal/api"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
)

// Kind identifies one snapshot feed
type Kind int

const (
	KindGPU Kind = iota
	KindStatus
	KindHealth
	KindProgress
)

// Kinds lists every feed in display order
var Kinds = []Kind{KindGPU, KindStatus, KindHealth, KindProgress}

func (k Kind) String() string {
	switch k {
	case KindGPU:
		return "gpu"
	case KindStatus:
		return "status"
	case KindHealth:
		return "health"
	case KindProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// ParseKind maps a feed name to its Kind
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Default refresh cadence. Status has no timer and refreshes on demand.
const (
	DefaultGPUInterval      = 5 * time.Second
	DefaultHealthInterval   = 30 * time.Second
	DefaultProgressInterval = 60 * time.Second
	DefaultFetchTimeout     = 30 * time.Second
)

// Outcome classifies a refresh
type Outcome int

const (
	OutcomeOK          Outcome = iota // snapshot rendered
	OutcomeUnavailable                // backend answered without usable data
	OutcomeOffline                    // transport failure
)

// Result is one completed refresh
type Result struct {
	Kind    Kind
	Seq     uint64
	Outcome Outcome
	Reason  string
	At      time.Time
	Err     error

	GPU      *models.GPUSnapshot
	Status   *models.StatusSnapshot
	Health   *models.HealthSnapshot
	Progress *models.ProgressSnapshot
}

// Sink receives results; it is called from poller goroutines
type Sink func(Result)

// Poller owns one ticker per timed feed
type Poller struct {
	client       api.TelemetryClient
	sink         Sink
	intervals    map[Kind]time.Duration
	fetchTimeout time.Duration
	seq          [4]atomic.Uint64
	log          *logrus.Entry

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval overrides the cadence of a timed feed; zero disables its timer
func WithInterval(kind Kind, d time.Duration) Option {
	return func(p *Poller) {
		p.intervals[kind] = d
	}
}

// WithFetchTimeout bounds each request
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Poller) {
		p.fetchTimeout = d
	}
}

// WithLogger sets the log entry for poll activity
func WithLogger(entry *logrus.Entry) Option {
	return func(p *Poller) {
		p.log = entry
	}
}

// NewPoller creates a stopped poller delivering results to sink
func NewPoller(client api.TelemetryClient, sink Sink, opts ...Option) *Poller {
	p := &Poller{
		client: client,
		sink:   sink,
		intervals: map[Kind]time.Duration{
			KindGPU:      DefaultGPUInterval,
			KindHealth:   DefaultHealthInterval,
			KindProgress: DefaultProgressInterval,
		},
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logging.Component("telemetry")
	}
	return p
}

// Interval returns the cadence of kind, zero for on-demand feeds
func (p *Poller) Interval(kind Kind) time.Duration {
	return p.intervals[kind]
}

// Start refreshes every feed immediately and then keeps the timed feeds on
// their fixed intervals until Stop or until ctx ends. Calling Start on a
// running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.ctx, p.cancel = context.WithCancel(ctx)
	stopCh := p.stopCh
	runCtx := p.ctx
	p.mu.Unlock()

	p.log.Info("telemetry started")
	p.Refresh(KindStatus)

	for _, kind := range []Kind{KindGPU, KindHealth, KindProgress} {
		interval := p.intervals[kind]
		p.Refresh(kind)
		if interval <= 0 {
			continue
		}

		p.wg.Add(1)
		go func(kind Kind, interval time.Duration) {
			defer p.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					p.Refresh(kind)
				case <-stopCh:
					return
				case <-runCtx.Done():
					return
				}
			}
		}(kind, interval)
	}
}

// Stop halts every timer and waits for in-flight refreshes to finish.
// Results from refreshes that were in flight are dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("telemetry stopped")
}

// Running reports whether Start has been called without a matching Stop
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh issues one request for kind in its own goroutine and returns the
// sequence number it was stamped with. It never blocks on the network.
func (p *Poller) Refresh(kind Kind) uint64 {
	seq := p.seq[kind].Add(1)

	p.mu.Lock()
	ctx := p.ctx
	running := p.running
	p.mu.Unlock()
	if !running || ctx == nil {
		ctx = context.Background()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		res := p.fetch(ctx, kind, seq)
		if running && ctx.Err() != nil {
			return
		}
		if p.sink != nil {
			p.sink(res)
		}
	}()
	return seq
}

// Fetch performs one synchronous refresh of kind. It never returns an
// error; failures are reported in the Result.
func (p *Poller) Fetch(ctx context.Context, kind Kind) Result {
	return p.fetch(ctx, kind, p.seq[kind].Add(1))
}

func (p *Poller) fetch(ctx context.Context, kind Kind, seq uint64) Result {
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}

	res := Result{Kind: kind, Seq: seq}
	var err error

	switch kind {
	case KindGPU:
		res.GPU, err = p.client.GPUStats(ctx)
	case KindStatus:
		res.Status, err = p.client.Status(ctx)
	case KindHealth:
		res.Health, err = p.client.Health(ctx)
	case KindProgress:
		res.Progress, err = p.client.Progress(ctx)
	}
	res.At = time.Now()

	if err == nil && !res.hasSnapshot() {
		err = apierrors.NewUnavailableError(kind.String(), "empty response")
	}

	switch {
	case err == nil:
		res.Outcome = OutcomeOK
	case apierrors.IsTransport(err) || apierrors.IsCancelled(err):
		res.Outcome = OutcomeOffline
		res.Err = err
		res.Reason = err.Error()
	default:
		res.Outcome = OutcomeUnavailable
		res.Err = err
		res.Reason = apierrors.GetReason(err)
		if res.Reason == "" {
			res.Reason = err.Error()
		}
	}

	p.log.WithFields(logrus.Fields{
		"feed":    kind.String(),
		"seq":     seq,
		"outcome": res.Outcome,
	}).Debug("refresh completed")

	return res
}

func (r Result) hasSnapshot() bool {
	switch r.Kind {
	case KindGPU:
		return r.GPU != nil
	case KindStatus:
		return r.Status != nil
	case KindHealth:
		return r.Health != nil
	case KindProgress:
		return r.Progress != nil
	}
	return false
}
