// Package scrape tracks the lifecycle of a user-triggered backend re-scrape:
// Idle, Running, then Succeeded or Failed, then back to Idle after a
// display delay.
package scrape

import (
	"log/slog"
	"time"

	"github.com/uniqwrites/secnews/internal/logging"
)

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	DefaultSuccessDelay = 1500 * time.Millisecond
	DefaultFailureDelay = 5 * time.Second

	MsgRunning   = "⏳ Scraping in progress... fetching latest security news (this can take up to a minute)"
	MsgSucceeded = "✅ Scraping completed successfully! Updating articles..."
	msgFailed    = "❌ Error: "
)

// Settle is a pending return to Idle. The caller waits After and then hands
// it back to Controller.Settle.
type Settle struct {
	Epoch   uint64
	After   time.Duration
	Refresh bool
}

// Controller is not safe for concurrent use; it lives on the UI loop.
type Controller struct {
	state        State
	message      string
	epoch        uint64
	successDelay time.Duration
	failureDelay time.Duration
	log          *slog.Logger
}

// New returns an idle controller. Non-positive delays take the defaults.
func New(successDelay, failureDelay time.Duration) *Controller {
	if successDelay <= 0 {
		successDelay = DefaultSuccessDelay
	}
	if failureDelay <= 0 {
		failureDelay = DefaultFailureDelay
	}
	return &Controller{
		successDelay: successDelay,
		failureDelay: failureDelay,
		log:          logging.For("scrape"),
	}
}

func (c *Controller) State() State    { return c.state }
func (c *Controller) Message() string { return c.message }
func (c *Controller) Busy() bool      { return c.state == Running || c.state == Succeeded }
func (c *Controller) Epoch() uint64   { return c.epoch }

// Trigger starts a run and returns its epoch. It is ignored while a run is
// in flight or its success is still being shown; requests are not queued.
// A failure message may be interrupted by a new run.
func (c *Controller) Trigger() (uint64, bool) {
	if c.Busy() {
		c.log.Debug("trigger ignored", "state", c.state.String())
		return 0, false
	}
	c.epoch++
	c.state = Running
	c.message = MsgRunning
	c.log.Info("scrape started", "epoch", c.epoch)
	return c.epoch, true
}

// Complete records the outcome of run epoch. Timeouts and transport errors
// are failures like any other; the message carries the error's own text.
func (c *Controller) Complete(epoch uint64, err error) (Settle, bool) {
	if epoch != c.epoch || c.state != Running {
		return Settle{}, false
	}
	if err != nil {
		c.state = Failed
		c.message = msgFailed + err.Error()
		c.log.Warn("scrape failed", "epoch", epoch, "error", err)
		return Settle{Epoch: epoch, After: c.failureDelay}, true
	}
	c.state = Succeeded
	c.message = MsgSucceeded
	c.log.Info("scrape succeeded", "epoch", epoch)
	return Settle{Epoch: epoch, After: c.successDelay, Refresh: true}, true
}

// Settle returns to Idle and clears the message. It reports whether the
// feed should be re-fetched now. Settles from an older run are ignored.
func (c *Controller) Settle(s Settle) bool {
	if s.Epoch != c.epoch {
		return false
	}
	switch c.state {
	case Succeeded:
		c.state = Idle
		c.message = ""
		return s.Refresh
	case Failed:
		c.state = Idle
		c.message = ""
	}
	return false
}
