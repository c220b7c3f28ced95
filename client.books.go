package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListBooks fetches one page of book summaries.
func (c *APIClient) ListBooks(ctx context.Context, page int) (BookPage, error) {
	var out BookPage
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books?page=%d", page), nil, &out)
	return out, err
}

// GetBook fetches a single book with its embedded reviews.
func (c *APIClient) GetBook(ctx context.Context, id string) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateBook saves a new book. Requires an authenticated session.
func (c *APIClient) CreateBook(ctx context.Context, req BookRequest) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodPost, "/books", req, &out)
	return out, err
}

// UpdateBook replaces an existing book. Requires an authenticated session.
func (c *APIClient) UpdateBook(ctx context.Context, id string, req BookRequest) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), req, &out)
	return out, err
}
