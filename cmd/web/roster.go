package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/crucial707/userlist/internal/models"
)

type uiState int

const (
	stateIdle uiState = iota
	stateSubmitting
)

func (s uiState) String() string {
	if s == stateSubmitting {
		return "submitting"
	}
	return "idle"
}

// usersAPI is the part of client.Client the page needs.
type usersAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, name string) (string, error)
}

// roster is the page's transient view of the users list. It is never
// authoritative: the snapshot is replaced on every successful list call
// and left untouched when a call fails.
type roster struct {
	api usersAPI

	mu       sync.Mutex
	users    []models.User
	inFlight int
}

func newRoster(api usersAPI) *roster {
	return &roster{api: api, users: []models.User{}}
}

// Refresh replaces the snapshot with the API's list. Failures are logged and
// leave the previous snapshot in place.
func (r *roster) Refresh(ctx context.Context) {
	users, err := r.api.ListUsers(ctx)
	if err != nil {
		slog.Warn("list users failed, keeping previous snapshot", "err", err)
		return
	}
	r.mu.Lock()
	r.users = users
	r.mu.Unlock()
}

// Add creates a user and then refreshes. A failed create is logged and the
// list is still refreshed.
func (r *roster) Add(ctx context.Context, name string) {
	r.mu.Lock()
	r.inFlight++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}()

	if _, err := r.api.CreateUser(ctx, name); err != nil {
		slog.Warn("create user failed", "err", err)
	}
	r.Refresh(ctx)
}

// Snapshot returns a copy of the last fetched list.
func (r *roster) Snapshot() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *roster) State() uiState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight > 0 {
		return stateSubmitting
	}
	return stateIdle
}
