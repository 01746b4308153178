package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSubmit(t *testing.T) {
	var got []map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	records := []schema.SubmitRecord{{
		Score:  8.5,
		Commit: "abc123",
		Email:  "dev@example.com",
		Status: schema.PassedStatus,
		File:   "app/main.py",
		Repo:   "demo",
		Insert: 3,
		Delete: 1,
	}}

	err := NewClient(srv.URL, time.Second).Submit(context.Background(), records)
	require.NoError(t, err)
	assert.Contains(t, contentType, "application/json")
	require.Len(t, got, 1)
	for _, key := range []string{"score", "commit", "email", "status", "file", "repo", "insert", "delete"} {
		assert.Contains(t, got[0], key)
	}
	assert.NotContains(t, got[0], "impact", "impact is only sent in history mode")
	assert.Equal(t, 8.5, got[0]["score"])
	assert.Equal(t, "PASSED", got[0]["status"])
}

func TestClientSubmitServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).Submit(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status code 500")
	assert.Equal(t, int32(1), calls.Load(), "submission must not be retried")
}

func TestClientSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := NewClient(srv.URL, 50*time.Millisecond).Submit(context.Background(), []schema.SubmitRecord{})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewSubmitter(t *testing.T) {
	assert.IsType(t, NopSubmitter{}, NewSubmitter("", time.Second))
	assert.IsType(t, &Client{}, NewSubmitter("http://localhost:1/scores", time.Second))
	assert.NoError(t, NopSubmitter{}.Submit(context.Background(), nil))
}
