package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestInitialState(t *testing.T) {
	c := New(0, 0)
	if c.State() != Idle {
		t.Errorf("expected Idle, got %s", c.State())
	}
	if c.Message() != "" {
		t.Errorf("expected empty message, got %q", c.Message())
	}
	if c.successDelay != DefaultSuccessDelay || c.failureDelay != DefaultFailureDelay {
		t.Errorf("expected default delays, got %v / %v", c.successDelay, c.failureDelay)
	}
}

func TestSuccessLifecycle(t *testing.T) {
	c := New(time.Second, 3*time.Second)

	epoch, ok := c.Trigger()
	if !ok {
		t.Fatal("trigger from Idle should start a run")
	}
	if c.State() != Running || c.Message() != MsgRunning {
		t.Fatalf("expected Running with progress message, got %s %q", c.State(), c.Message())
	}

	s, ok := c.Complete(epoch, nil)
	if !ok {
		t.Fatal("completion of current run should be accepted")
	}
	if c.State() != Succeeded || c.Message() != MsgSucceeded {
		t.Errorf("expected Succeeded, got %s %q", c.State(), c.Message())
	}
	if s.After != time.Second || !s.Refresh {
		t.Errorf("unexpected settle %+v", s)
	}

	if !c.Settle(s) {
		t.Error("settle after success should request a refresh")
	}
	if c.State() != Idle || c.Message() != "" {
		t.Errorf("expected Idle with cleared message, got %s %q", c.State(), c.Message())
	}
	if c.Settle(s) {
		t.Error("a second settle must not request another refresh")
	}
}

func TestFailureLifecycle(t *testing.T) {
	c := New(time.Second, 3*time.Second)
	epoch, _ := c.Trigger()

	err := fmt.Errorf("scrape: request timed out: %w", context.DeadlineExceeded)
	s, ok := c.Complete(epoch, err)
	if !ok {
		t.Fatal("expected completion accepted")
	}
	if c.State() != Failed {
		t.Errorf("expected Failed, got %s", c.State())
	}
	if !strings.Contains(c.Message(), err.Error()) {
		t.Errorf("message should carry the error text, got %q", c.Message())
	}
	if s.After != 3*time.Second || s.Refresh {
		t.Errorf("unexpected settle %+v", s)
	}

	if c.Settle(s) {
		t.Error("failure must not request a refresh")
	}
	if c.State() != Idle || c.Message() != "" {
		t.Errorf("expected Idle, got %s %q", c.State(), c.Message())
	}
}

func TestTriggerWhileRunningIsNoop(t *testing.T) {
	c := New(0, 0)
	epoch, _ := c.Trigger()

	if _, ok := c.Trigger(); ok {
		t.Error("second trigger while Running should be ignored")
	}
	if c.State() != Running || c.Epoch() != epoch {
		t.Errorf("state changed by ignored trigger: %s epoch %d", c.State(), c.Epoch())
	}

	s, _ := c.Complete(epoch, nil)
	if _, ok := c.Trigger(); ok {
		t.Error("trigger while the success message is shown should be ignored")
	}
	c.Settle(s)
	if _, ok := c.Trigger(); !ok {
		t.Error("trigger from Idle should work again")
	}
}

func TestRetriggerAfterFailureIgnoresOldSettle(t *testing.T) {
	c := New(0, 0)
	first, _ := c.Trigger()
	oldSettle, _ := c.Complete(first, errors.New("connection refused"))

	second, ok := c.Trigger()
	if !ok {
		t.Fatal("a failed run may be retried by the user")
	}
	if second == first {
		t.Fatal("new run must get a new epoch")
	}

	c.Settle(oldSettle)
	if c.State() != Running || c.Message() != MsgRunning {
		t.Errorf("old settle must not clear the new run, got %s %q", c.State(), c.Message())
	}

	if _, ok := c.Complete(first, nil); ok {
		t.Error("completion from an old run must be ignored")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Running: "running", Succeeded: "succeeded", Failed: "failed", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
