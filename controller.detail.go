package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// NoRatingsYet is what the detail view shows for an empty review set.
const NoRatingsYet = "No ratings yet"

// BookDetailBackend is the narrow remote contract the detail controller needs.
type BookDetailBackend interface {
	GetBook(ctx context.Context, id string) (Book, error)
	AddReview(ctx context.Context, req ReviewRequest) (Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// BookDetailState is the view state of a single book with its reviews.
// Book stays nil when the fetch failed so the view renders an error view,
// never a partial book. Reviews are kept most-recent-first.
type BookDetailState struct {
	Book    *Book
	Reviews []Review
	Loading bool
	Message string
}

// BookDetailController owns the book detail view state: one fetched book,
// its in-memory review list and the message surfaced to the view.
type BookDetailController struct {
	logger  *zap.Logger
	backend BookDetailBackend
	session *SessionStore

	mu    sync.RWMutex
	state BookDetailState
	seq   uint64
}

// NewBookDetailController provides a detail controller wired to the
// session store for mutation authorization checks.
func NewBookDetailController(logger *zap.Logger, backend BookDetailBackend, session *SessionStore) *BookDetailController {
	return &BookDetailController{logger: logger, backend: backend, session: session}
}

// State returns a snapshot of the detail view state.
func (c *BookDetailController) State() BookDetailState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LoadBook fetches the book with its embedded reviews. On failure the
// book stays unset and a readable message is recorded. A response arriving
// after a newer LoadBook was issued is discarded.
func (c *BookDetailController) LoadBook(ctx context.Context, id string) {
	c.mu.Lock()
	c.seq++
	issued := c.seq
	c.state.Loading = true
	c.state.Message = ""
	c.mu.Unlock()

	book, err := c.backend.GetBook(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if issued != c.seq {
		c.logger.Info("detail: discarded superseded book response", zap.String("book.id", id))
		return
	}
	c.state.Loading = false
	if err != nil {
		c.logger.Error("detail: failed to load book", zap.String("book.id", id), zap.Error(err))
		c.state.Book = nil
		c.state.Reviews = nil
		c.state.Message = "Failed to load book details."
		return
	}
	c.state.Book = &book
	c.state.Reviews = book.Reviews
	c.logger.Info("detail: loaded book", zap.String("book.id", book.ID), zap.Int("reviews", len(book.Reviews)))
}

// AverageRating computes the arithmetic mean of the current review set
// rounded to one decimal. The second result reports whether there are any
// ratings at all, so an empty set never divides by zero.
func (c *BookDetailController) AverageRating() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.state.Reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range c.state.Reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(c.state.Reviews))
	return math.Round(avg*10) / 10, true
}

// DisplayAverage renders the average rating for the view.
func (c *BookDetailController) DisplayAverage() string {
	avg, ok := c.AverageRating()
	if !ok {
		return NoRatingsYet
	}
	return fmt.Sprintf("%.1f", avg)
}

// AddReview validates the form locally then posts the review. The server
// returned entity is prepended to the in-memory list so the view updates
// without a refetch. On any failure the list stays unchanged and the
// failure message is surfaced.
func (c *BookDetailController) AddReview(ctx context.Context, rating int, text string) error {
	if err := CheckForm(&ReviewForm{Rating: rating, ReviewTxt: text}); err != nil {
		c.record(UserMessage(err))
		return err
	}

	session := c.session.Current()
	if session.State != AuthStateAuthorized {
		err := NewFault(ErrUnauthorized, "Please login to add a review.", nil)
		c.record(err.Message)
		return err
	}

	c.mu.RLock()
	book := c.state.Book
	c.mu.RUnlock()
	if book == nil {
		err := NewFault(ErrNotFound, "No book is loaded.", nil)
		c.record(err.Message)
		return err
	}

	review, err := c.backend.AddReview(ctx, ReviewRequest{BookID: book.ID, Rating: rating, ReviewTxt: text})
	if err != nil {
		c.logger.Error("detail: failed to add review", zap.String("book.id", book.ID), zap.Error(err))
		c.record("Failed to add review. Make sure you're logged in.")
		return err
	}

	c.mu.Lock()
	c.state.Reviews = append([]Review{review}, c.state.Reviews...)
	c.state.Message = "Review added successfully!"
	c.mu.Unlock()
	c.logger.Info("detail: review added", zap.String("book.id", book.ID), zap.String("review.id", review.ID))
	return nil
}

// CanDelete reports whether the acting user authored the given review.
// It only drives the delete affordance in the view: the server remains
// the authority and may still reject the call.
func (c *BookDetailController) CanDelete(review Review) bool {
	session := c.session.Current()
	return session.State == AuthStateAuthorized && session.User.ID == review.Author.ID
}

// DeleteReview removes a review by id after the advisory ownership check.
// On success exactly the matching entry leaves the in-memory list. On
// failure, a server rejection included, the list stays unchanged.
func (c *BookDetailController) DeleteReview(ctx context.Context, reviewID string) error {
	c.mu.RLock()
	var target *Review
	for i := range c.state.Reviews {
		if c.state.Reviews[i].ID == reviewID {
			target = &c.state.Reviews[i]
			break
		}
	}
	c.mu.RUnlock()

	if target == nil {
		err := NewFault(ErrNotFound, "This review does not exist.", nil)
		c.record(err.Message)
		return err
	}
	if !c.CanDelete(*target) {
		err := NewFault(ErrUnauthorized, "You can only delete your own review.", nil)
		c.record(err.Message)
		return err
	}

	if err := c.backend.DeleteReview(ctx, reviewID); err != nil {
		c.logger.Error("detail: failed to delete review", zap.String("review.id", reviewID), zap.Error(err))
		c.record(UserMessage(err))
		return err
	}

	c.mu.Lock()
	kept := c.state.Reviews[:0:0]
	for _, r := range c.state.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	c.state.Reviews = kept
	c.state.Message = "Review deleted successfully."
	c.mu.Unlock()
	c.logger.Info("detail: review deleted", zap.String("review.id", reviewID))
	return nil
}

// record surfaces a message to the view.
func (c *BookDetailController) record(message string) {
	c.mu.Lock()
	c.state.Message = message
	c.mu.Unlock()
}
