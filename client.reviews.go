package main

import (
	"context"
	"net/http"
	"net/url"
)

// AddReview posts a new review and returns the server saved entity.
// Requires an authenticated session.
func (c *APIClient) AddReview(ctx context.Context, req ReviewRequest) (Review, error) {
	var out Review
	err := c.do(ctx, http.MethodPost, "/reviews", req, &out)
	return out, err
}

// DeleteReview removes a review by id. The server is the authority on
// ownership: a foreign review comes back as an authorization failure.
func (c *APIClient) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(id), nil, nil)
}
