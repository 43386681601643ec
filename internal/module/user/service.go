package user

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"github.com/simp-lee/userdesk/internal/domain"
	"github.com/simp-lee/userdesk/internal/pkg"
	"github.com/simp-lee/userdesk/internal/store"
)

// phonePattern accepts digits with the usual separators and an optional
// leading plus, 7 to 20 characters.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,18}[0-9]$`)

// userService implements domain.UserService. It is the orchestration layer
// the page and API handlers talk to: every successful gateway result is
// reflected into the session store, and reads prefer the store over a round
// trip where the snapshot can answer.
type userService struct {
	gateway domain.UserGateway
	store   *store.Store
}

// NewUserService creates a UserService over the given gateway and store.
func NewUserService(gateway domain.UserGateway, st *store.Store) domain.UserService {
	return &userService{gateway: gateway, store: st}
}

// ListUsers loads one page from the remote API into the store and returns it
// with page-count metadata. On failure the store carries the user-facing
// message and the previous user list is left in place.
func (s *userService) ListUsers(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.User], error) {
	s.store.SetLoading(true)

	page, err := s.gateway.ListUsers(ctx, req.Page, req.PageSize)
	if err != nil {
		s.store.SetError(domain.UserMessage(err))
		return nil, err
	}

	s.store.SetUsers(page.Users)

	// Derive the page count from the limit the API actually applied, which
	// may differ from the requested size on the last page of short datasets.
	size := page.Limit
	if size < 1 {
		size = req.PageSize
	}
	return pkg.NewPageResult(page.Users, page.Total, domain.PageRequest{
		Page:     req.Page,
		PageSize: size,
	}), nil
}

// GetUser returns the user with the given id, answering from the store
// snapshot when the record is already loaded and fetching otherwise. The
// result becomes the store's current user either way.
func (s *userService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	if cached, ok := s.store.UserByID(id); ok {
		s.store.SetCurrentUser(&cached)
		return &cached, nil
	}

	s.store.SetLoading(true)
	u, err := s.gateway.GetUser(ctx, id)
	if err != nil {
		s.store.SetError(domain.UserMessage(err))
		return nil, err
	}

	s.store.SetLoading(false)
	s.store.SetCurrentUser(u)
	return u, nil
}

// CreateUser validates the record, sends it to the remote API, merges the
// assigned id back into the submitted data, and appends the merged record to
// the store. The remote API is not assumed to echo every field, so the
// submitted values win over the response body.
func (s *userService) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}

	s.store.SetLoading(true)
	created, err := s.gateway.CreateUser(ctx, u)
	if err != nil {
		s.store.SetError(domain.UserMessage(err))
		return nil, err
	}

	merged := u
	merged.ID = created.ID
	s.store.AddUser(merged)
	return &merged, nil
}

// UpdateUser validates the record, sends a full replacement to the remote
// API, and applies the merged record to the store by id. The same
// id-merge rule as CreateUser applies.
func (s *userService) UpdateUser(ctx context.Context, id int, u domain.User) (*domain.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}

	s.store.SetLoading(true)
	if _, err := s.gateway.UpdateUser(ctx, id, u); err != nil {
		s.store.SetError(domain.UserMessage(err))
		return nil, err
	}

	merged := u
	merged.ID = id
	s.store.UpdateUser(merged)
	if current := s.store.Snapshot().CurrentUser; current != nil && current.ID == id {
		s.store.SetCurrentUser(&merged)
	}
	return &merged, nil
}

// DeleteUser removes the record from the remote API. The store's user list
// is not touched: the list page reloads after a delete, which replaces the
// snapshot wholesale.
func (s *userService) DeleteUser(ctx context.Context, id int) error {
	if err := s.gateway.DeleteUser(ctx, id); err != nil {
		s.store.SetError(domain.UserMessage(err))
		return err
	}
	return nil
}

// validateUser checks field constraints locally. A failure here means the
// submission never becomes a network call.
func validateUser(u domain.User) error {
	if strings.TrimSpace(u.FirstName) == "" {
		return domain.NewValidationError("firstName", "is required")
	}
	if strings.TrimSpace(u.LastName) == "" {
		return domain.NewValidationError("lastName", "is required")
	}
	if u.Age != 0 && (u.Age < 1 || u.Age > 120) {
		return domain.NewValidationError("age", "must be between 1 and 120")
	}
	switch u.Gender {
	case "", "male", "female":
	default:
		return domain.NewValidationError("gender", "must be male or female")
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return domain.NewValidationError("email", "must be a valid email address")
		}
	}
	if u.Phone != "" && !phonePattern.MatchString(u.Phone) {
		return domain.NewValidationError("phone", "must be a valid phone number")
	}
	return nil
}
