// Package chat implements the request/response/cancel/retry lifecycle of a
// single conversation with the ladder agent.
//
// The Controller is loop-confined: every method except Request.Run must be
// called from the same goroutine (the bubbletea Update loop, or a CLI's main
// goroutine). Only one request may be generating at a time; a second Send
// while generating returns nil. That guard backs the disabled input control
// and is not a mutex.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diogo/ladderweb/internal/api"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
)

// Transcript texts
const (
	StoppedText        = "⏹️ Generation stopped by user."
	ErrorPrefix        = "❌ Error: "
	ConnectErrorPrefix = "❌ Error connecting to chat agent: "
	RestoredText       = "— Previous conversation restored —"
)

// Request is one cancellable chat exchange
type Request struct {
	ID      uint64
	Message string
	UseRAG  bool
	Replay  bool

	client api.ChatClient
	ctx    context.Context
	cancel context.CancelFunc
}

// Result is the outcome of Request.Run, applied with Controller.Complete
type Result struct {
	RequestID uint64
	Reply     *models.ChatReply
	Err       error
}

// Run performs the blocking backend call. It is safe to call off the loop.
func (r *Request) Run() Result {
	defer r.cancel()
	reply, err := r.client.Chat(r.ctx, r.Message, r.UseRAG)
	if err == nil && errors.Is(r.ctx.Err(), context.Canceled) {
		// a reply that raced a cancel is still a cancellation
		err = fmt.Errorf("chat: %w", apierrors.ErrCancelled)
	}
	return Result{RequestID: r.ID, Reply: reply, Err: err}
}

// State is the controller-owned session state
type State struct {
	Generating      bool
	LastUserMessage string
	ActiveRequest   uint64
}

// Controls is the view binding derived from State
type Controls struct {
	InputEnabled bool
	SendVisible  bool
	StopVisible  bool
	RetryVisible bool
	FocusInput   bool
	Typing       bool
}

// Controller owns the transcript and the generating flag
type Controller struct {
	client     api.ChatClient
	transcript []models.ChatMessage
	lastUser   string
	active     *Request
	nextID     uint64
	focus      bool
	timeout    time.Duration
	log        *logrus.Entry
}

// Option configures a Controller
type Option func(*Controller)

// WithRequestTimeout bounds each exchange; zero means no deadline
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithLogger sets the log entry for lifecycle transitions
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Controller) {
		c.log = entry
	}
}

// NewController creates an idle controller with an empty transcript
func NewController(client api.ChatClient, opts ...Option) *Controller {
	c := &Controller{client: client}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Component("chat")
	}
	return c
}

// Send starts an exchange. An empty message or a send while generating
// returns nil and changes nothing.
func (c *Controller) Send(message string, useRAG bool) *Request {
	return c.send(message, useRAG, false)
}

func (c *Controller) send(message string, useRAG, replay bool) *Request {
	message = strings.TrimSpace(message)
	if message == "" || c.active != nil {
		return nil
	}

	c.lastUser = message
	if !replay {
		c.append(models.ChatMessage{Role: models.RoleUser, Content: message, Kind: models.KindMessage})
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	c.nextID++
	c.active = &Request{
		ID:      c.nextID,
		Message: message,
		UseRAG:  useRAG,
		Replay:  replay,
		client:  c.client,
		ctx:     ctx,
		cancel:  cancel,
	}
	c.focus = false

	c.log.WithFields(logrus.Fields{
		"request": c.active.ID,
		"replay":  replay,
		"use_rag": useRAG,
	}).Debug("generating")

	return c.active
}

// Complete applies a finished exchange and returns to Idle. Results for a
// request that is no longer active are discarded and report false. The
// returned reply is non-nil only for a normal message reply.
func (c *Controller) Complete(res Result) (*models.ChatReply, bool) {
	if c.active == nil || res.RequestID != c.active.ID {
		c.log.WithField("request", res.RequestID).Debug("discarding stale chat result")
		return nil, false
	}
	c.finish()

	switch {
	case res.Err != nil && apierrors.IsCancelled(res.Err):
		c.append(models.ChatMessage{Role: models.RoleAssistant, Content: StoppedText, Kind: models.KindCancelled})
		return nil, true

	case res.Err != nil && apierrors.IsTransport(res.Err):
		c.log.WithError(res.Err).Warn("chat transport failure")
		c.append(models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: ConnectErrorPrefix + res.Err.Error(),
			Kind:    models.KindFailure,
		})
		return nil, true

	case res.Err != nil:
		reason := apierrors.GetReason(res.Err)
		if reason == "" {
			reason = res.Err.Error()
		}
		c.append(models.ChatMessage{Role: models.RoleAssistant, Content: ErrorPrefix + reason, Kind: models.KindError})
		return nil, true

	case res.Reply == nil:
		c.append(models.ChatMessage{Role: models.RoleAssistant, Content: ErrorPrefix + "empty response", Kind: models.KindError})
		return nil, true

	case res.Reply.Message != "":
		c.append(models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: res.Reply.Message,
			Action:  res.Reply.Action(),
			Output:  res.Reply.Output(),
			Data:    res.Reply.Data,
			Kind:    models.KindMessage,
		})
		return res.Reply, true

	default:
		c.append(models.ChatMessage{Role: models.RoleAssistant, Content: ErrorPrefix + res.Reply.Error, Kind: models.KindError})
		return nil, true
	}
}

// Stop cancels the active exchange, records the stop in the transcript and
// returns to Idle. With nothing active it does nothing and reports false.
func (c *Controller) Stop() bool {
	if c.active == nil {
		return false
	}
	id := c.active.ID
	c.active.cancel()
	c.finish()
	c.append(models.ChatMessage{Role: models.RoleAssistant, Content: StoppedText, Kind: models.KindCancelled})
	c.log.WithField("request", id).Info("generation stopped by user")
	return true
}

// Retry re-sends the last user message as a replay after removing the most
// recent assistant message.
func (c *Controller) Retry(useRAG bool) (*Request, error) {
	if c.active != nil {
		return nil, apierrors.ErrGenerating
	}
	if c.lastUser == "" {
		return nil, apierrors.ErrNothingToRetry
	}

	c.removeLastAssistant()
	return c.send(c.lastUser, useRAG, true), nil
}

// Restore loads stored history ahead of the live conversation and marks the
// boundary. An empty history changes nothing.
func (c *Controller) Restore(history []models.HistoryEntry) {
	if len(history) == 0 {
		return
	}

	restored := make([]models.ChatMessage, 0, len(history)+1+len(c.transcript))
	for _, h := range history {
		role := h.Role
		if role != models.RoleUser {
			role = models.RoleAssistant
		}
		msg := models.ChatMessage{
			Role:    role,
			Content: h.Content,
			Action:  h.Action,
			Data:    h.Data,
			Kind:    models.KindMessage,
		}
		if out, ok := h.Data["output"].(string); ok {
			msg.Output = out
		}
		restored = append(restored, msg)
	}
	restored = append(restored, models.ChatMessage{Role: models.RoleAssistant, Content: RestoredText, Kind: models.KindSeparator})
	c.transcript = append(restored, c.transcript...)
}

// Announce appends a local assistant notice, such as a model switch
func (c *Controller) Announce(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.append(models.ChatMessage{Role: models.RoleAssistant, Content: text, Kind: models.KindNotice})
}

// Shutdown cancels any active exchange without touching the transcript
func (c *Controller) Shutdown() {
	if c.active != nil {
		c.active.cancel()
		c.active = nil
	}
}

// State returns a read-only copy of the session state
func (c *Controller) State() State {
	s := State{Generating: c.active != nil, LastUserMessage: c.lastUser}
	if c.active != nil {
		s.ActiveRequest = c.active.ID
	}
	return s
}

// Controls derives the view binding from the current state
func (c *Controller) Controls() Controls {
	generating := c.active != nil
	return Controls{
		InputEnabled: !generating,
		SendVisible:  !generating,
		StopVisible:  generating,
		RetryVisible: !generating && c.lastUser != "",
		FocusInput:   c.focus,
		Typing:       generating,
	}
}

// ConsumeFocus reports and clears a pending focus request
func (c *Controller) ConsumeFocus() bool {
	f := c.focus
	c.focus = false
	return f
}

// Transcript returns a deep copy of the displayed messages
func (c *Controller) Transcript() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.transcript))
	for i, m := range c.transcript {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of transcript entries
func (c *Controller) Len() int {
	return len(c.transcript)
}

func (c *Controller) finish() {
	c.active = nil
	c.focus = true
}

func (c *Controller) append(m models.ChatMessage) {
	c.transcript = append(c.transcript, m)
}

func (c *Controller) removeLastAssistant() {
	for i := len(c.transcript) - 1; i >= 0; i-- {
		m := c.transcript[i]
		if m.Role == models.RoleAssistant && m.Kind != models.KindSeparator {
			c.transcript = append(c.transcript[:i:i], c.transcript[i+1:]...)
			return
		}
	}
}
