package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteWithoutKeyFailsFast(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	client := NewClient("", "gemini-1.5-flash", 3).WithBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), "hello")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, int32(0), calls.Load(), "no network call without a credential")
	assert.False(t, client.Configured())
}

func TestCompleteRetriesExactlyMaxTimes(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient("test-key", "gemini-1.5-flash", 3).WithBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, err.Error(), "503")
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "model reply"}]}}]}`))
	}))
	defer ts.Close()

	client := NewClient("test-key", "gemini-1.5-flash", 3).WithBaseURL(ts.URL)

	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "model reply", text)
	assert.Equal(t, int32(1), calls.Load(), "success must not retry")
}

func TestCompleteEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer ts.Close()

	client := NewClient("test-key", "", 1).WithBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
