package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	patterns := []string{"timeout", "rate limit"}

	tests := []struct {
		err      error
		expected bool
	}{
		{errors.New("request timeout"), true},
		{errors.New("Rate Limit exceeded"), true},
		{errors.New("not found"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsRetryableError(tt.err, patterns); got != tt.expected {
			t.Errorf("IsRetryableError(%v) = %v; want %v", tt.err, got, tt.expected)
		}
	}
}

func TestWithRetry_Success(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.InitialDelay = 1 * time.Millisecond // fast tests

	attempts := 0
	operation := func(ctx context.Context) (string, error) {
		attempts++
		return "success", nil
	}

	result, err := WithRetry(ctx, operation, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected result 'success', got %v", result)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestWithRetry_RetrySuccess(t *testing.T) {
	ctx := context.Background()
	config := DownloadRetryConfig()
	config.InitialDelay = 1 * time.Millisecond
	config.MaxAttempts = 3

	attempts := 0
	operation := func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("download failed with status 503")
		}
		return "success", nil
	}

	result, err := WithRetry(ctx, operation, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected result 'success', got %v", result)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.InitialDelay = 1 * time.Millisecond

	attempts := 0
	operation := func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("invalid api key")
	}

	_, err := WithRetry(ctx, operation, config)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	config := DownloadRetryConfig()
	config.InitialDelay = 1 * time.Millisecond
	config.MaxAttempts = 2

	attempts := 0
	operation := func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("connection reset by peer")
	}

	_, err := WithRetry(ctx, operation, config)
	if err == nil {
		t.Fatal("Expected an error after exhausting attempts")
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}
