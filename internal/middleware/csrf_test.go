package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func setupCSRFRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF(secret))
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	r.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

// fetchToken performs a GET and returns the issued token and its cookie.
func fetchToken(t *testing.T, r *gin.Engine) (string, *http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/form", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	token := w.Body.String()
	if token == "" {
		t.Fatal("no token exposed to the handler")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "_csrf_token" {
			return token, c
		}
	}
	t.Fatal("no csrf cookie set")
	return "", nil
}

func TestCSRF_GetIssuesToken(t *testing.T) {
	r := setupCSRFRouter(testSecret)
	token, cookie := fetchToken(t, r)

	if cookie.Value != token {
		t.Error("cookie value and exposed token must match")
	}
	if !strings.Contains(token, ".") {
		t.Errorf("token = %q; want nonce.signature form", token)
	}
}

func TestCSRF_GetReusesValidCookie(t *testing.T) {
	r := setupCSRFRouter(testSecret)
	token, cookie := fetchToken(t, r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != token {
		t.Errorf("token = %q; want the existing cookie token %q", got, token)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "_csrf_token" {
			t.Error("a valid cookie must not be reissued")
		}
	}
}

func TestCSRF_PostWithFormToken(t *testing.T) {
	r := setupCSRFRouter(testSecret)
	token, cookie := fetchToken(t, r)

	form := url.Values{}
	form.Set("_csrf_token", token)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
}

func TestCSRF_PostWithHeaderToken(t *testing.T) {
	r := setupCSRFRouter(testSecret)
	token, cookie := fetchToken(t, r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
}

func TestCSRF_PostRejections(t *testing.T) {
	r := setupCSRFRouter(testSecret)
	token, cookie := fetchToken(t, r)

	tests := []struct {
		name    string
		prepare func(req *http.Request)
	}{
		{"no cookie", func(req *http.Request) {
			req.Header.Set("X-CSRF-Token", token)
		}},
		{"no token", func(req *http.Request) {
			req.AddCookie(cookie)
		}},
		{"mismatched token", func(req *http.Request) {
			req.AddCookie(cookie)
			req.Header.Set("X-CSRF-Token", token+"tampered")
		}},
		{"forged cookie", func(req *http.Request) {
			forged := &http.Cookie{Name: "_csrf_token", Value: "deadbeef.Zm9yZ2Vk"}
			req.AddCookie(forged)
			req.Header.Set("X-CSRF-Token", forged.Value)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/submit", nil)
			tt.prepare(req)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("status = %d; want 403", w.Code)
			}
		})
	}
}

func TestCSRF_EmptySecret(t *testing.T) {
	r := setupCSRFRouter("  ")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/form", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500 with a blank secret", w.Code)
	}
}

func TestValidToken(t *testing.T) {
	token, err := generateToken(testSecret)
	if err != nil {
		t.Fatalf("generateToken() error = %v", err)
	}

	if !validToken(token, testSecret) {
		t.Error("freshly generated token should validate")
	}
	if validToken(token, "other-secret") {
		t.Error("token must not validate under a different secret")
	}
	if validToken("no-dot", testSecret) {
		t.Error("malformed token should not validate")
	}
	if validToken("", testSecret) {
		t.Error("empty token should not validate")
	}
}
