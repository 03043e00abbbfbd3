package adminapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_EmptyKey(t *testing.T) {
	if c := NewClient(""); c != nil {
		t.Errorf("NewClient(\"\") = %v, want nil", c)
	}
}

func TestCollectWindows_SumsBuckets(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant-admin-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		requests = append(requests, r.URL.Query().Get("bucket_width"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"buckets":[
			{"results":[{"input_tokens":100,"output_tokens":10,"cache_creation_input_tokens":5,"cache_read_input_tokens":50,"cost":1.5}]},
			{"results":[{"input_tokens":200,"output_tokens":20,"cost":2.5},{"input_tokens":300,"output_tokens":30,"cost":3.0}]}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("sk-ant-admin-test").WithBaseURL(srv.URL)
	totals, err := client.CollectWindows(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("CollectWindows: %v", err)
	}

	// All three ranges get the same canned payload here.
	for _, b := range []struct {
		name   string
		tokens int64
		cost   float64
	}{
		{"session", totals.Session.InputTokens, totals.Session.Cost},
		{"daily", totals.Daily.InputTokens, totals.Daily.Cost},
		{"weekly", totals.Weekly.InputTokens, totals.Weekly.Cost},
	} {
		if b.tokens != 600 {
			t.Errorf("%s input tokens = %d, want 600", b.name, b.tokens)
		}
		if b.cost != 7.0 {
			t.Errorf("%s cost = %v, want 7.0", b.name, b.cost)
		}
	}

	if len(requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(requests))
	}
	want := []string{"1h", "1h", "1d"}
	for i, w := range want {
		if requests[i] != w {
			t.Errorf("request %d bucket_width = %q, want %q", i, requests[i], w)
		}
	}
}

func TestCollectWindows_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key").WithBaseURL(srv.URL)
	_, err := client.CollectWindows(context.Background(), time.Now())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestCollectWindows_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("sk-ant-admin-test").WithBaseURL(srv.URL)
	_, err := client.CollectWindows(context.Background(), time.Now())
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestCollectWindows_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"buckets": [`))
	}))
	defer srv.Close()

	client := NewClient("sk-ant-admin-test").WithBaseURL(srv.URL)
	if _, err := client.CollectWindows(context.Background(), time.Now()); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestCollectWindows_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("sk-ant-admin-test").WithBaseURL(srv.URL)
	if _, err := client.CollectWindows(context.Background(), time.Now()); err == nil {
		t.Error("expected error for HTTP 500")
	}
}
