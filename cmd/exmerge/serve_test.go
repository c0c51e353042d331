package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRetryWithBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errors.New("connection refused")
	}

	start := time.Now()
	err := retryWithBackoff(ctx, op, 5, time.Minute, zap.NewNop(), "Redis connection")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected prompt return after cancel, took %v", elapsed)
	}
}

func TestRetryWithBackoffSucceeds(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	if err := retryWithBackoff(context.Background(), op, 5, time.Millisecond, zap.NewNop(), "op"); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoffGivesUp(t *testing.T) {
	err := retryWithBackoff(context.Background(), func() error { return errors.New("down") },
		2, time.Millisecond, zap.NewNop(), "op")
	if err == nil {
		t.Fatal("Expected error after retries")
	}
}
