package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BookPageFetcher is the narrow remote contract the list controller needs.
type BookPageFetcher interface {
	ListBooks(ctx context.Context, page int) (BookPage, error)
}

// BookListState is the view state of the paginated books list. Items stay
// populated with the last successful page when a refresh fails, so the
// view keeps showing stale-but-valid data next to the error message.
type BookListState struct {
	Items      []BookSummary
	Page       int
	TotalPages int
	Loading    bool
	Error      string
}

// BookListController owns the books list view state. It is the single
// writer of that state and applies each fetch result all-or-nothing.
type BookListController struct {
	logger  *zap.Logger
	backend BookPageFetcher

	mu    sync.RWMutex
	state BookListState
	seq   uint64
}

// NewBookListController provides a controller starting at page 1 of 1.
func NewBookListController(logger *zap.Logger, backend BookPageFetcher) *BookListController {
	return &BookListController{
		logger:  logger,
		backend: backend,
		state:   BookListState{Page: 1, TotalPages: 1},
	}
}

// State returns a snapshot of the list view state.
func (c *BookListController) State() BookListState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Load fetches the given page in exactly one round trip. While in flight
// the state shows loading with the error cleared. On success items, page
// and totalPages are replaced atomically. On failure the previous items
// stay untouched and a readable error is recorded. A response arriving
// after a newer Load was issued is discarded.
func (c *BookListController) Load(ctx context.Context, page int) {
	c.mu.Lock()
	c.seq++
	issued := c.seq
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	result, err := c.backend.ListBooks(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if issued != c.seq {
		c.logger.Info("books: discarded superseded page response", zap.Int("page", page))
		return
	}
	c.state.Loading = false
	if err != nil {
		c.logger.Error("books: failed to load page", zap.Int("page", page), zap.Error(err))
		c.state.Error = "Failed to load books. Please try again."
		return
	}
	c.state.Items = result.Data
	c.state.Page = result.Page
	c.state.TotalPages = result.TotalPages
	if c.state.Page < 1 {
		c.state.Page = 1
	}
	if c.state.TotalPages < 1 {
		c.state.TotalPages = 1
	}
	if c.state.Page > c.state.TotalPages {
		c.state.Page = c.state.TotalPages
	}
	c.logger.Info("books: loaded page",
		zap.Int("page", c.state.Page),
		zap.Int("total.pages", c.state.TotalPages),
		zap.Int("items", len(c.state.Items)),
	)
}

// Next loads the following page. It is a no-op at the last page.
func (c *BookListController) Next(ctx context.Context) {
	c.mu.RLock()
	page, total := c.state.Page, c.state.TotalPages
	c.mu.RUnlock()
	if page >= total {
		return
	}
	c.Load(ctx, page+1)
}

// Prev loads the preceding page. It is a no-op at page one.
func (c *BookListController) Prev(ctx context.Context) {
	c.mu.RLock()
	page := c.state.Page
	c.mu.RUnlock()
	if page <= 1 {
		return
	}
	c.Load(ctx, page-1)
}
