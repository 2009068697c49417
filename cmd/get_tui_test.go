package cmd

import (
	"errors"
	"testing"

	"doomdeck/acquire"
)

func TestAcquireOutcomeWhenQuitEarly(t *testing.T) {
	// The view was quit before the pipeline reported back.
	m := acquireModel{}

	result, err := m.outcome()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("outcome() = %v, want ErrCancelled", err)
	}
	if result != nil {
		t.Errorf("outcome() result = %+v, want nil", result)
	}
}

func TestAcquireOutcomeAfterDone(t *testing.T) {
	want := &acquire.Result{Skipped: 1}

	next, _ := acquireModel{}.Update(acquireDoneMsg{result: want})
	m := next.(acquireModel)

	result, err := m.outcome()
	if err != nil {
		t.Fatalf("outcome() error: %v", err)
	}
	if result != want {
		t.Errorf("outcome() result = %+v, want the pipeline's result", result)
	}
}

func TestAcquireOutcomeSurfacesPipelineError(t *testing.T) {
	next, _ := acquireModel{}.Update(acquireDoneMsg{err: acquire.ErrNoMapsDownloaded})
	m := next.(acquireModel)

	_, err := m.outcome()
	if !errors.Is(err, acquire.ErrNoMapsDownloaded) {
		t.Errorf("outcome() = %v, want ErrNoMapsDownloaded", err)
	}
}
