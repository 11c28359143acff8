package panel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "test-api-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewValidatesInputs(t *testing.T) {
	t.Parallel()

	if _, err := New("", "key"); err == nil {
		t.Fatal("expected error for empty URL")
	}
	if _, err := New("https://panel.example.com", "  "); err == nil {
		t.Fatal("expected error for blank API key")
	}

	c, err := New("https://panel.example.com///", "key")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.baseURL != "https://panel.example.com/api/application" {
		t.Fatalf("expected trailing slashes trimmed, got %q", c.baseURL)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, func(err error) bool {
			var target AuthError
			return errors.As(err, &target)
		}, "AuthError"},
		{http.StatusForbidden, func(err error) bool {
			var target PermissionError
			return errors.As(err, &target)
		}, "PermissionError"},
		{http.StatusNotFound, IsNotFound, "NotFoundError"},
		{http.StatusInternalServerError, func(err error) bool {
			var target TransportError
			return errors.As(err, &target)
		}, "TransportError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"errors":[{"detail":"boom"}]}`)
			}))

			_, err := c.ListServers(context.Background(), false)
			if err == nil {
				t.Fatalf("expected %s, got nil", tc.name)
			}
			if !tc.check(err) {
				t.Fatalf("expected %s, got %T: %v", tc.name, err, err)
			}
		})
	}
}

func TestErrorTypesAreDistinct(t *testing.T) {
	t.Parallel()

	// A 401 must not satisfy errors.As for any of the other three types.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.ListServers(context.Background(), false)
	var perm PermissionError
	var notFound NotFoundError
	var transport TransportError
	if errors.As(err, &perm) || errors.As(err, &notFound) || errors.As(err, &transport) {
		t.Fatalf("AuthError matched a sibling type: %v", err)
	}
}

func TestTransportErrorOnNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // immediately: connection refused

	c, err := New(srv.URL, "key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.ListServers(context.Background(), false)
	var transport TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError for refused connection, got %T: %v", err, err)
	}
	if transport.Status != 0 {
		t.Fatalf("expected status 0 for network failure, got %d", transport.Status)
	}
}

func TestRequestCarriesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotAccept string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"data":[]}`)
	}))

	if _, err := c.ListServers(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer test-api-key" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected JSON accept header, got %q", gotAccept)
	}
}

func TestTestConnection(t *testing.T) {
	t.Parallel()

	ok := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/application/users" {
			t.Errorf("unexpected probe path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	if !ok.TestConnection(context.Background()) {
		t.Fatal("expected healthy connection to probe true")
	}

	bad := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if bad.TestConnection(context.Background()) {
		t.Fatal("expected rejected key to probe false")
	}
}

func TestMalformedBodyIsTransportError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": not-json`)
	}))

	_, err := c.ListServers(context.Background(), false)
	var transport TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError for malformed body, got %T: %v", err, err)
	}
}
