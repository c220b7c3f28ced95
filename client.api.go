package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource provides the current bearer token, or an empty string when
// the session is not authenticated. It is wired from the session store so
// the client never owns session state.
type TokenSource func() string

// APIClient is the thin HTTP/JSON contract against the remote book-review
// service. It maps transport and status failures into the shared sentinels
// and never interprets the payloads it carries.
type APIClient struct {
	logger     *zap.Logger
	config     *BackendConfig
	httpClient *http.Client
	idsHandler UIDHandler
	token      TokenSource
}

// NewAPIClient provides a ready to use APIClient.
func NewAPIClient(logger *zap.Logger, config *BackendConfig, idsHandler UIDHandler, token TokenSource) *APIClient {
	return &APIClient{
		logger:     logger,
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		idsHandler: idsHandler,
		token:      token,
	}
}

// remoteError is the error payload shape of the remote service.
type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one round trip and decodes the response body into out when
// provided. Exactly one request is issued per call: no retries, so each
// load maps to one network round trip.
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	requestID := c.idsHandler.Generate(RequestIDPrefix)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewFault(ErrValidation, "Request could not be encoded.", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return NewFault(ErrNetwork, "Request could not be built.", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("client: request failed",
			zap.String("request.id", requestID),
			zap.String("request.method", method),
			zap.String("request.path", path),
			zap.Error(err),
		)
		return NewFault(ErrNetwork, "Could not reach the server. Please try again.", err)
	}
	defer resp.Body.Close()

	c.logger.Info("client: request completed",
		zap.String("request.id", requestID),
		zap.String("request.method", method),
		zap.String("request.path", path),
		zap.Int("response.status", resp.StatusCode),
		zap.Duration("request.duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return c.statusFault(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewFault(ErrNetwork, "The server sent an unreadable response.", err)
	}
	return nil
}

// statusFault converts a non-2xx response into a Fault carrying the
// failure kind and the server supplied message when one exists.
func (c *APIClient) statusFault(resp *http.Response) error {
	message := serverMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "You are not allowed to perform this action."
		}
		return NewFault(ErrUnauthorized, message, fmt.Errorf("status %d", resp.StatusCode))
	case http.StatusNotFound:
		if message == "" {
			message = "The requested resource does not exist."
		}
		return NewFault(ErrNotFound, message, fmt.Errorf("status %d", resp.StatusCode))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "The server rejected the submitted data."
		}
		return NewFault(ErrValidation, message, fmt.Errorf("status %d", resp.StatusCode))
	default:
		if message == "" {
			message = "The server could not process the request."
		}
		return NewFault(ErrNetwork, message, fmt.Errorf("status %d", resp.StatusCode))
	}
}

// serverMessage extracts the error message from a failed response body.
func serverMessage(body io.Reader) string {
	var remote remoteError
	if err := json.NewDecoder(body).Decode(&remote); err != nil {
		return ""
	}
	if remote.Error != "" {
		return remote.Error
	}
	return remote.Message
}
