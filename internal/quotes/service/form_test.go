package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestFormRefusesConcurrentSubmit(t *testing.T) {
	dispatcher := &fakeDispatcher{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	form := NewForm(newFlow(accepting(), dispatcher))

	done := make(chan Outcome, 1)
	go func() {
		outcome, err := form.Submit(context.Background(), validFields(), &fakeTokens{token: "tok"})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		done <- outcome
	}()

	<-dispatcher.entered
	if !form.Busy() {
		t.Fatalf("expected form to be busy while sending")
	}
	if form.State() != StateSendingEmail {
		t.Fatalf("expected sending_email state, got %s", form.State())
	}

	if _, err := form.Submit(context.Background(), validFields(), &fakeTokens{token: "tok"}); !errors.Is(err, ErrFormBusy) {
		t.Fatalf("expected ErrFormBusy, got %v", err)
	}

	close(dispatcher.block)
	outcome := <-done
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if form.Busy() {
		t.Fatalf("expected busy flag cleared")
	}
	if form.State() != StateIdle {
		t.Fatalf("expected idle after attempt, got %s", form.State())
	}
}

func TestFormClearsBusyAfterFailure(t *testing.T) {
	form := NewForm(newFlow(accepting(), &fakeDispatcher{}))
	fields := validFields()
	fields.Phone = "12"

	outcome, err := form.Submit(context.Background(), fields, &fakeTokens{token: "tok"})
	if err != nil || outcome.Success {
		t.Fatalf("expected failed outcome without error, got %+v err=%v", outcome, err)
	}
	if form.Busy() || form.State() != StateIdle {
		t.Fatalf("expected form back to idle")
	}
}

func TestFormRegistryReusesAndSweeps(t *testing.T) {
	registry := NewFormRegistry(newFlow(accepting(), &fakeDispatcher{}), time.Minute)

	a := registry.Form("10.0.0.1")
	if registry.Form("10.0.0.1") != a {
		t.Fatalf("expected the same form for the same key")
	}
	registry.Form("10.0.0.2")
	if registry.Len() != 2 {
		t.Fatalf("expected 2 forms, got %d", registry.Len())
	}

	registry.Sweep(time.Now())
	if registry.Len() != 2 {
		t.Fatalf("fresh forms must survive a sweep")
	}

	registry.Sweep(time.Now().Add(2 * time.Minute))
	if registry.Len() != 0 {
		t.Fatalf("expected idle forms swept, got %d", registry.Len())
	}
}

func TestFormRegistryLookupDoesNotCreate(t *testing.T) {
	registry := NewFormRegistry(newFlow(accepting(), &fakeDispatcher{}), time.Minute)

	if _, ok := registry.Lookup("10.0.0.1"); ok {
		t.Fatalf("expected no form before first submit")
	}
	if registry.Len() != 0 {
		t.Fatalf("lookup must not create forms, got %d", registry.Len())
	}

	created := registry.Form("10.0.0.1")
	form, ok := registry.Lookup("10.0.0.1")
	if !ok || form != created {
		t.Fatalf("expected lookup to return the created form")
	}
}

func TestFormRegistryEnforcesHardCap(t *testing.T) {
	registry := NewFormRegistry(newFlow(accepting(), &fakeDispatcher{}), time.Hour)
	registry.limit = 3

	for i := 0; i < 3000; i++ {
		registry.Form(fmt.Sprintf("198.51.100.%d", i))
	}
	if registry.Len() != 3 {
		t.Fatalf("expected registry capped at 3 forms, got %d", registry.Len())
	}
	if _, ok := registry.Lookup("198.51.100.2999"); !ok {
		t.Fatalf("expected the newest form to be kept")
	}
	if _, ok := registry.Lookup("198.51.100.0"); ok {
		t.Fatalf("expected the oldest form to be evicted")
	}
}

func TestFormRegistryNeverEvictsBusyForm(t *testing.T) {
	dispatcher := &fakeDispatcher{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	registry := NewFormRegistry(newFlow(accepting(), dispatcher), time.Hour)
	registry.limit = 1

	busy := registry.Form("10.0.0.1")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = busy.Submit(context.Background(), validFields(), &fakeTokens{token: "tok"})
	}()
	<-dispatcher.entered

	registry.Form("10.0.0.2")
	if form, ok := registry.Lookup("10.0.0.1"); !ok || form != busy {
		t.Fatalf("busy form must survive eviction")
	}

	close(dispatcher.block)
	<-done

	registry.Form("10.0.0.3")
	if _, ok := registry.Lookup("10.0.0.1"); ok {
		t.Fatalf("expected finished form to be evictable")
	}
}
