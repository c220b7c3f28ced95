package main

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token and the user profile.
func (c *APIClient) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out)
	return out, err
}

// Signup creates a new account. The caller still needs to login afterwards.
func (c *APIClient) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", req, nil)
}
