package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient provides an api client pointed at a test server.
func newTestClient(t *testing.T, handler http.Handler, token string) (*APIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	config := &BackendConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		UserAgent:      "brw-test",
	}
	client := NewAPIClient(zap.NewNop(), config, NewIDsHandler(), func() string { return token })
	return client, server
}

// TestAPIClient_ListBooks ensures the paginated list endpoint is decoded
// and the correlation headers are attached.
func TestAPIClient_ListBooks(t *testing.T) {
	var gotPath, gotRequestID, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BookPage{
			Data:       []BookSummary{{ID: "b1", Title: "Dune", AvgRating: 4.5, ReviewsCount: 12}},
			Page:       2,
			TotalPages: 5,
		})
	})
	client, _ := newTestClient(t, handler, "")

	page, err := client.ListBooks(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "/books?page=2", gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.Empty(t, gotAuth, "no token means no authorization header")
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Dune", page.Data[0].Title)
}

// TestAPIClient_BearerToken ensures the session token rides every call.
func TestAPIClient_BearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Review{ID: "r1"})
	})
	client, _ := newTestClient(t, handler, "tok-1")

	_, err := client.AddReview(context.Background(), ReviewRequest{BookID: "b1", Rating: 5, ReviewTxt: "great"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

// TestAPIClient_StatusMapping ensures http statuses land on the right
// failure sentinels with the server message preserved.
func TestAPIClient_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		payload  string
		sentinel error
		message  string
	}{
		{"should map: unauthorized", http.StatusUnauthorized, `{"error":"invalid token"}`, ErrUnauthorized, "invalid token"},
		{"should map: forbidden", http.StatusForbidden, `{"error":"not the owner"}`, ErrUnauthorized, "not the owner"},
		{"should map: not found", http.StatusNotFound, `{}`, ErrNotFound, "The requested resource does not exist."},
		{"should map: bad request", http.StatusBadRequest, `{"error":"rating out of range"}`, ErrValidation, "rating out of range"},
		{"should map: server error", http.StatusInternalServerError, `{}`, ErrNetwork, "The server could not process the request."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			})
			client, _ := newTestClient(t, handler, "tok-1")

			_, err := client.GetBook(context.Background(), "b1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel))
			assert.Equal(t, tc.message, UserMessage(err))
		})
	}
}

// TestAPIClient_TransportFailure ensures an unreachable server surfaces
// as a network failure, not a crash.
func TestAPIClient_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, http.NotFoundHandler(), "")
	server.Close()

	_, err := client.ListBooks(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.NotEmpty(t, UserMessage(err))
}

// TestAPIClient_Login ensures the token and profile are decoded.
func TestAPIClient_Login(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token: "tok-1",
			User:  User{ID: "u1", Name: "Ada", Email: creds.Email},
		})
	})
	client, _ := newTestClient(t, handler, "")

	out, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.Token)
	assert.Equal(t, "u1", out.User.ID)
}

// TestAPIClient_DeleteReview ensures the delete call targets the right path.
func TestAPIClient_DeleteReview(t *testing.T) {
	var gotMethod, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	client, _ := newTestClient(t, handler, "tok-1")

	err := client.DeleteReview(context.Background(), "r42")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/reviews/r42", gotPath)
}
