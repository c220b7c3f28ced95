package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

// Polling bounds for tests awaiting a concurrent state change.
const (
	waitTimeout = 2 * time.Second
	waitTick    = 5 * time.Millisecond
)

type MockSessionStorage struct {
	SaveFunc  func(record SessionRecord) error
	LoadFunc  func() (SessionRecord, error)
	ClearFunc func() error

	Saved   []SessionRecord
	Cleared int
}

// Save mocks the persistence of the session record.
func (m *MockSessionStorage) Save(record SessionRecord) error {
	m.Saved = append(m.Saved, record)
	if m.SaveFunc != nil {
		return m.SaveFunc(record)
	}
	return nil
}

// Load mocks the restore of the session record.
func (m *MockSessionStorage) Load() (SessionRecord, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return SessionRecord{}, ErrNoSession
}

// Clear mocks the removal of the session record.
func (m *MockSessionStorage) Clear() error {
	m.Cleared++
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}

type MockBookPageFetcher struct {
	ListBooksFunc  func(ctx context.Context, page int) (BookPage, error)
	RequestedPages []int
}

// ListBooks mocks the paginated books list endpoint.
func (m *MockBookPageFetcher) ListBooks(ctx context.Context, page int) (BookPage, error) {
	m.RequestedPages = append(m.RequestedPages, page)
	if m.ListBooksFunc != nil {
		return m.ListBooksFunc(ctx, page)
	}
	return BookPage{Page: page, TotalPages: 1}, nil
}

type MockBookDetailBackend struct {
	GetBookFunc      func(ctx context.Context, id string) (Book, error)
	AddReviewFunc    func(ctx context.Context, req ReviewRequest) (Review, error)
	DeleteReviewFunc func(ctx context.Context, id string) error

	AddReviewCalls    int
	DeleteReviewCalls int
}

// GetBook mocks the single book endpoint.
func (m *MockBookDetailBackend) GetBook(ctx context.Context, id string) (Book, error) {
	if m.GetBookFunc != nil {
		return m.GetBookFunc(ctx, id)
	}
	return Book{}, ErrNotFound
}

// AddReview mocks the review creation endpoint.
func (m *MockBookDetailBackend) AddReview(ctx context.Context, req ReviewRequest) (Review, error) {
	m.AddReviewCalls++
	if m.AddReviewFunc != nil {
		return m.AddReviewFunc(ctx, req)
	}
	return Review{}, ErrNetwork
}

// DeleteReview mocks the review deletion endpoint.
func (m *MockBookDetailBackend) DeleteReview(ctx context.Context, id string) error {
	m.DeleteReviewCalls++
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(ctx, id)
	}
	return nil
}

// MockClock provides a frozen clock for expiry checks.
type MockClock struct {
	Time time.Time
}

// Now provides the frozen time.
func (m *MockClock) Now() time.Time {
	return m.Time
}

// newTestSessionStore wires a session store on top of a mock storage.
func newTestSessionStore(storage SessionStorage) *SessionStore {
	return NewSessionStore(zap.NewNop(), storage, &MockClock{Time: time.Now()})
}

// authorizedSessionStore provides a store already resolved as logged in.
func authorizedSessionStore(user User) *SessionStore {
	storage := &MockSessionStorage{}
	store := newTestSessionStore(storage)
	store.Login("test-token", user)
	return store
}
