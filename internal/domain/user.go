package domain

import (
	"context"
)

// User represents a user record hosted on the remote API.
//
// ID is assigned by the remote API; a zero ID means the record has not been
// persisted yet. Age, Gender, Email, and Phone are optional and omitted from
// payloads when empty. JSON field names follow the remote resource's schema.
type User struct {
	ID        int    `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// FullName returns the user's display name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserPage is the envelope the remote API returns for list requests.
// Users holds at most Limit records; Total counts records across all pages.
type UserPage struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// UserGateway translates domain operations into remote API round trips.
// Each call is a single request/response exchange with no local retry;
// failures surface as *TransportError or *StatusError.
type UserGateway interface {
	ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error)
	GetUser(ctx context.Context, id int) (*User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, id int, u User) (*User, error)
	DeleteUser(ctx context.Context, id int) error
}

// UserService defines the business logic interface for users. It coordinates
// the remote gateway with the session store so that page handlers read
// consistent snapshots without extra round trips.
type UserService interface {
	ListUsers(ctx context.Context, req PageRequest) (*PageResult[User], error)
	GetUser(ctx context.Context, id int) (*User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, id int, u User) (*User, error)
	DeleteUser(ctx context.Context, id int) error
}
