package pipeline

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/userdesk/internal/notify"
)

// recordingNotifier captures published toasts synchronously.
type recordingNotifier struct {
	toasts []notify.Toast
}

func (r *recordingNotifier) Publish(t notify.Toast) {
	r.toasts = append(r.toasts, t)
}

func TestErrorNotify_TransportFailure(t *testing.T) {
	rec := &recordingNotifier{}
	failing := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	client := &http.Client{Transport: Chain(failing, ErrorNotify(rec))}

	_, err := client.Get("http://remote.invalid/users")
	require.Error(t, err)

	require.Len(t, rec.toasts, 1, "exactly one toast per failed call")
	toast := rec.toasts[0]
	assert.Equal(t, notify.SeverityError, toast.Severity)
	assert.Equal(t, "Error", toast.Summary)
	assert.Equal(t, "Network error: Please check your internet connection", toast.Detail)
}

func TestErrorNotify_StatusDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"not found", http.StatusNotFound, "Not Found: The requested resource was not found"},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized: Please check your credentials"},
		{"server error", http.StatusInternalServerError, "Server Error: Please try again later"},
		{"unmapped", http.StatusConflict, "Error 409: Conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			rec := &recordingNotifier{}
			client := &http.Client{Transport: Chain(nil, ErrorNotify(rec))}

			resp, err := client.Get(srv.URL)
			require.NoError(t, err, "non-2xx responses pass through as responses, not errors")
			resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			require.Len(t, rec.toasts, 1)
			assert.Equal(t, tt.want, rec.toasts[0].Detail)
		})
	}
}

func TestErrorNotify_SuccessPublishesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rec := &recordingNotifier{}
	client := &http.Client{Transport: Chain(nil, ErrorNotify(rec))}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, rec.toasts)
}

func TestErrorNotify_LeavesBodyUnread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad input"}`))
	}))
	defer srv.Close()

	client := &http.Client{Transport: Chain(nil, ErrorNotify(&recordingNotifier{}))}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"bad input"}`, string(body), "the stage must not consume the body the gateway needs")
}

func TestErrorNotify_NilNotifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &http.Client{Transport: Chain(nil, ErrorNotify(nil))}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestNewClient_AssemblesPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rec := &recordingNotifier{}
	client := NewClient(5*time.Second, nil, rec)
	require.NotNil(t, client.Transport)
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, rec.toasts, 1)
	assert.Equal(t, "Error 502: Bad Gateway", rec.toasts[0].Detail)
}
