package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/userdesk/internal/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newTestContext()

	Success(c, map[string]string{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != http.StatusOK || resp.Message != "success" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"transport maps to bad gateway", &domain.TransportError{Err: errors.New("refused")}, http.StatusBadGateway},
		{"remote 5xx maps to bad gateway", domain.NewStatusError(500, "boom"), http.StatusBadGateway},
		{"remote 404 passes through", domain.NewStatusError(404, "missing"), http.StatusNotFound},
		{"remote 403 passes through", domain.NewStatusError(403, "nope"), http.StatusForbidden},
		{"validation maps to bad request", domain.NewValidationError("email", "invalid"), http.StatusBadRequest},
		{"unknown maps to internal error", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			Error(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestError_UsesTranslatedMessage(t *testing.T) {
	c, w := newTestContext()

	Error(c, &domain.TransportError{Err: errors.New("refused")})

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Network error: Please check your internet connection" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestBindAndValidate(t *testing.T) {
	type payload struct {
		FirstName string `json:"firstName" binding:"required"`
		Email     string `json:"email" binding:"omitempty,email"`
	}

	t.Run("valid payload", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"firstName":"Terry"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var p payload
		if !BindAndValidate(c, &p) {
			t.Fatal("BindAndValidate() = false; want true")
		}
		if p.FirstName != "Terry" {
			t.Errorf("FirstName = %q", p.FirstName)
		}
	})

	t.Run("missing required field keys errors by json tag", func(t *testing.T) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"t@example.com"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var p payload
		if BindAndValidate(c, &p) {
			t.Fatal("BindAndValidate() = true; want false")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}

		var resp ValidationErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, ok := resp.Errors["firstName"]; !ok {
			t.Errorf("errors = %v; want firstName key", resp.Errors)
		}
	})

	t.Run("malformed body yields generic bad request", func(t *testing.T) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
		c.Request.Header.Set("Content-Type", "application/json")

		var p payload
		if BindAndValidate(c, &p) {
			t.Fatal("BindAndValidate() = true; want false")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", w.Code)
		}
	})
}
