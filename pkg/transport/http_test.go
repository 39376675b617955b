package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/identity"
)

func newFetcher(opts Options) *HTTPFetcher {
	// No retries by default so failure tests stay fast.
	if opts.RetryMax == 0 {
		opts.RetryMax = -1
	}
	return NewHTTPFetcher(opts)
}

func TestFetchStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jar bytes"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := newFetcher(Options{}).Fetch(context.Background(), srv.URL+"/mods/a.jar", &buf)
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", buf.String())
}

func TestFetchSendsBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	fetcher := newFetcher(Options{Credentials: identity.Static("sekrit")})
	var buf bytes.Buffer
	require.NoError(t, fetcher.Fetch(context.Background(), srv.URL, &buf))
	assert.Equal(t, "Bearer sekrit", gotAuth.Load())
}

func TestFetchNoTokenNoHeader(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	require.NoError(t, newFetcher(Options{}).Fetch(context.Background(), srv.URL, &buf))
	assert.Equal(t, "", gotAuth.Load())
}

func TestFetchStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, errors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, errors.ErrUnauthorized},
		{"not found", http.StatusNotFound, errors.ErrFetchPermanent},
		{"gone", http.StatusGone, errors.ErrFetchPermanent},
		{"bad gateway", http.StatusBadGateway, errors.ErrFetchTransient},
		{"service unavailable", http.StatusServiceUnavailable, errors.ErrFetchTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var buf bytes.Buffer
			err := newFetcher(Options{}).Fetch(context.Background(), srv.URL, &buf)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestFetchRetriesTransientThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := NewHTTPFetcher(Options{RetryMax: 2}).Fetch(context.Background(), srv.URL, &buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", buf.String())
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchNeverRetriesUnauthorized(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := NewHTTPFetcher(Options{RetryMax: 3}).Fetch(context.Background(), srv.URL, &buf)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnauthorized))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchConnectionRefusedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var buf bytes.Buffer
	err := newFetcher(Options{}).Fetch(context.Background(), url, &buf)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestGetReturnsOpenBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"packs":[]}`))
	}))
	defer srv.Close()

	body, err := newFetcher(Options{}).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"packs":[]}`, buf.String())
}
