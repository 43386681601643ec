package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/simp-lee/userdesk/internal/domain"
)

// maxErrorBody caps how much of an error response body is read for its message.
const maxErrorBody = 8 << 10

// remoteGateway implements domain.UserGateway against the remote REST API.
// Cross-cutting behavior (logging, failure toasts) lives in the pipeline
// stages baked into the injected client, not here.
type remoteGateway struct {
	client  *http.Client
	baseURL string
}

// NewRemoteGateway creates a UserGateway backed by the remote API at
// baseURL. The client is expected to carry the pipeline transport.
func NewRemoteGateway(client *http.Client, baseURL string) domain.UserGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &remoteGateway{client: client, baseURL: baseURL}
}

// ListUsers fetches one page of users. Page numbering starts at 1; the
// request carries skip=(page-1)*pageSize and limit=pageSize.
func (g *remoteGateway) ListUsers(ctx context.Context, page, pageSize int) (*domain.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	skip := (page - 1) * pageSize

	var result domain.UserPage
	url := fmt.Sprintf("%s/users?skip=%d&limit=%d", g.baseURL, skip, pageSize)
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	if result.Users == nil {
		result.Users = []domain.User{}
	}
	return &result, nil
}

// GetUser fetches a single user. A remote 404 surfaces as a *StatusError
// matching domain.IsNotFound.
func (g *remoteGateway) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	url := fmt.Sprintf("%s/users/%d", g.baseURL, id)
	if err := g.do(ctx, http.MethodGet, url, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser sends the record and returns what the remote API answered with.
// The API assigns the id and is not assumed to echo every submitted field;
// merging the assigned id back into the form data is the caller's job.
func (g *remoteGateway) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	u.ID = 0

	var created domain.User
	url := g.baseURL + "/users"
	if err := g.do(ctx, http.MethodPost, url, u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser sends a full replacement for the record with the given id.
func (g *remoteGateway) UpdateUser(ctx context.Context, id int, u domain.User) (*domain.User, error) {
	u.ID = 0

	var updated domain.User
	url := fmt.Sprintf("%s/users/%d", g.baseURL, id)
	if err := g.do(ctx, http.MethodPut, url, u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes the record with the given id. Success has no payload.
func (g *remoteGateway) DeleteUser(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/users/%d", g.baseURL, id)
	return g.do(ctx, http.MethodDelete, url, nil, nil)
}

// do performs one round trip: marshal payload, issue the request, map the
// outcome into the domain taxonomy, and decode the body into out (when out
// is non-nil). There is no retry; a failed call is the caller's to reissue.
func (g *remoteGateway) do(ctx context.Context, method, url string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NewStatusError(resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the remote API's error message, which it reports as
// {"message": "..."} on failures. Falls back to empty when the body has a
// different shape.
func errorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}
