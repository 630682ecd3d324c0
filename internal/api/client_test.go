package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Makepad-fr/tada/internal/model"
)

func newTestClient(t *testing.T, h http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	nop := zerolog.Nop()
	if opts.Logger == nil {
		opts.Logger = &nop
	}
	if opts.Backoff == 0 {
		opts.Backoff = time.Millisecond
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 1000
		opts.RateLimitBurst = 1000
	}
	c := New(srv.URL+"/", opts)
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c
}

// todoServer serves n todos with ids 1..n.
func todoServer(t *testing.T, n int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/todos", r.URL.Path)
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		page := model.Page{Total: n, Skip: skip, Limit: limit, Todos: []model.Item{}}
		for id := skip + 1; id <= n && id <= skip+limit; id++ {
			page.Todos = append(page.Todos, model.Item{ID: id, Text: "todo " + strconv.Itoa(id), OwnerID: 1})
		}
		_ = json.NewEncoder(w).Encode(page)
	})
}

func TestListSendsPagingAndHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"todos":[{"id":7,"todo":"Walk","completed":true,"userId":3}],"total":40,"skip":10,"limit":1}`))
	}), Options{Token: "Bearer abc"})

	page, err := c.List(context.Background(), 10, 1)
	require.NoError(t, err)

	assert.Equal(t, "10", got.URL.Query().Get("skip"))
	assert.Equal(t, "1", got.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	_, err = uuid.Parse(got.Header.Get(HeaderRequestID))
	assert.NoError(t, err, "request id is a uuid")

	want := model.Page{
		Todos: []model.Item{{ID: 7, Text: "Walk", Completed: true, OwnerID: 3}},
		Total: 40, Skip: 10, Limit: 1,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("page (-want +got):\n%s", diff)
	}
}

func TestNoTokenNoAuthorization(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"todos":[],"total":0}`))
	}), Options{})
	_, err := c.List(context.Background(), 0, 10)
	require.NoError(t, err)
}

func TestCreateUpdateDelete(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()

		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"todo": "Buy milk", "completed": false, "userId": float64(1)}, body)
			_, _ = w.Write([]byte(`{"id":255,"todo":"Buy milk","completed":false,"userId":1}`))
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"completed": true}, body, "only set fields are sent")
			_, _ = w.Write([]byte(`{"id":3,"todo":"x","completed":true,"userId":1}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"id":3,"isDeleted":true}`))
		}
	}), Options{})
	ctx := context.Background()

	req, err := model.NewCreateRequest("  Buy milk ", 0)
	require.NoError(t, err)
	it, err := c.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 255, it.ID)

	it, err = c.Update(ctx, 3, model.SetCompleted(true))
	require.NoError(t, err)
	assert.True(t, it.Completed)

	require.NoError(t, c.Delete(ctx, 3))
	assert.Equal(t, []string{"POST /todos/add", "PATCH /todos/3", "DELETE /todos/3"}, seen)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"not found", 404, `{"message":"Todo with id '9' not found"}`, ErrNotFound, "Todo with id '9' not found"},
		{"unauthorized", 401, `{"message":"Invalid/Expired Token!"}`, ErrUnauthorized, "Invalid/Expired Token!"},
		{"forbidden", 403, ``, ErrUnauthorized, "Forbidden"},
		{"validation", 400, `{"message":"bad","errors":{"todo":["required"]}}`, ErrRejected, "bad"},
		{"plain text body", 400, `oops`, ErrRejected, "Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), Options{})

			_, err := c.Get(context.Background(), 9)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestValidationErrorsInMessage(t *testing.T) {
	e := &Error{Status: 400, Message: "bad", Errors: map[string][]string{
		"userId": {"must be positive"},
		"todo":   {"required", "too long"},
	}}
	assert.Equal(t, "api: 400 bad; todo: required, too long; userId: must be positive", e.Error())
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"todo":"ok"}`))
	}), Options{MaxRetries: 2})

	it, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ok", it.Text)
	assert.EqualValues(t, 3, calls.Load())
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), Options{MaxRetries: 3})

	_, err := c.Update(context.Background(), 1, model.SetText("x"))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualValues(t, 1, calls.Load())
}

func TestUndecodableSuccessIsBadResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}), Options{})
	_, err := c.List(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestTransportFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	nop := zerolog.Nop()
	c := New(url, Options{MaxRetries: -1, Logger: &nop})
	defer c.Close()
	_, err := c.List(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestContextCancelStopsRetries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), Options{MaxRetries: 5, Backoff: time.Hour, MaxBackoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.List(ctx, 0, 1)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestListAllJoinsPagesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := httptest.NewServer(todoServer(t, 23))
	defer srv.Close()
	nop := zerolog.Nop()
	c := New(srv.URL, Options{RateLimit: 1000, RateLimitBurst: 1000, Logger: &nop})
	defer c.Close()

	items, err := c.ListAll(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 23)
	for i, it := range items {
		assert.Equal(t, i+1, it.ID)
	}
}

func TestListAllSinglePage(t *testing.T) {
	c := newTestClient(t, todoServer(t, 3), Options{})
	items, err := c.ListAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListAllFailsWhenAPageFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") == "4" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		todoServer(t, 10).ServeHTTP(w, r)
	}), Options{})

	_, err := c.ListAll(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewDefaults(t *testing.T) {
	c := New("", Options{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, defaultRetries, c.maxRetries)
}
