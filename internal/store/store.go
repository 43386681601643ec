// Package store holds the session-scoped, observable snapshot of users
// fetched from the remote API. The store is the single source of truth for
// already-fetched data within a session; the remote API remains the source
// of truth overall, and nothing here survives a restart.
package store

import (
	"sync"

	"github.com/simp-lee/userdesk/internal/domain"
)

// State is one immutable snapshot of the store. Users reflects only the most
// recently loaded page, not a union of every page fetched in the session.
type State struct {
	Users       []domain.User
	CurrentUser *domain.User
	Loading     bool
	Error       string
}

// Store manages State through a fixed set of synchronous transitions.
//
// Every transition atomically replaces the current snapshot and broadcasts
// the new one to subscribers; readers never observe a partially updated
// state. Transitions cannot block or fail. Invariants:
//
//   - Loading and a non-empty Error are never set simultaneously:
//     SetLoading(true) clears Error, SetError forces Loading off.
//   - UpdateUser with an id not present in Users leaves the list unchanged.
//     This mirrors the historical front-end behavior; callers that need to
//     know whether the update landed must check the snapshot themselves.
//
// Concurrent gateway responses are applied in arrival order, last write
// wins. There is no sequencing by request-issue order, so a slow stale
// response can overwrite a newer one; see TestStore_LastWriteWins.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]chan State
	nextID int
}

// New creates an empty Store. One Store is created per session root and
// passed to its consumers explicitly.
func New() *Store {
	return &Store{
		state: State{Users: []domain.User{}},
		subs:  make(map[int]chan State),
	}
}

// Snapshot returns the current state. The returned value shares no mutable
// structure with the store: transitions build fresh slices rather than
// mutating in place.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// UserByID returns the user with the given id from the current snapshot.
// It is a pure read and never triggers a fetch; deciding whether to go to
// the network on a miss belongs to the caller.
func (s *Store) UserByID(id int) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.state.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// SetLoading sets the loading flag. Entering the loading state clears any
// prior error; leaving it does not touch the error.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) {
		st.Loading = loading
		if loading {
			st.Error = ""
		}
	})
}

// SetError records an error message and forces loading off.
func (s *Store) SetError(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		st.Loading = false
	})
}

// SetUsers replaces the user list wholesale and clears loading and error.
func (s *Store) SetUsers(users []domain.User) {
	s.update(func(st *State) {
		st.Users = cloneUsers(users)
		st.Loading = false
		st.Error = ""
	})
}

// AddUser appends a user to the list and clears loading and error. No
// duplicate-id check is performed; that responsibility sits with the caller.
func (s *Store) AddUser(u domain.User) {
	s.update(func(st *State) {
		users := make([]domain.User, 0, len(st.Users)+1)
		users = append(users, st.Users...)
		st.Users = append(users, u)
		st.Loading = false
		st.Error = ""
	})
}

// UpdateUser replaces the element whose id matches u.ID. When no element
// matches, the list is left unchanged (loading and error are still cleared).
func (s *Store) UpdateUser(u domain.User) {
	s.update(func(st *State) {
		users := cloneUsers(st.Users)
		for i := range users {
			if users[i].ID == u.ID {
				users[i] = u
				break
			}
		}
		st.Users = users
		st.Loading = false
		st.Error = ""
	})
}

// SetCurrentUser sets the currently viewed user independently of the other
// fields. Pass nil to clear it.
func (s *Store) SetCurrentUser(u *domain.User) {
	s.update(func(st *State) {
		if u == nil {
			st.CurrentUser = nil
			return
		}
		copied := *u
		st.CurrentUser = &copied
	})
}

// Subscribe registers a snapshot listener. The returned channel carries the
// latest snapshot after each transition; when a subscriber lags, older
// undelivered snapshots are dropped in favor of the newest one. The cancel
// function removes the subscription and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// update applies fn to a copy of the current state, installs the copy as the
// new snapshot, and broadcasts it.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	next := s.state
	fn(&next)
	s.state = next
	s.mu.Unlock()

	s.broadcast(next)
}

// broadcast delivers the snapshot to every subscriber, latest-wins.
func (s *Store) broadcast(st State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// Drop the stale pending snapshot, then queue the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

func cloneUsers(users []domain.User) []domain.User {
	cloned := make([]domain.User, len(users))
	copy(cloned, users)
	return cloned
}
