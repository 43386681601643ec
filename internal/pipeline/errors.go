package pipeline

import (
	"net/http"

	"github.com/simp-lee/userdesk/internal/domain"
	"github.com/simp-lee/userdesk/internal/notify"
)

// ErrorNotify returns the pipeline stage that classifies failed calls and
// announces them to the user.
//
// Transport failures (no response received) and non-2xx responses each
// produce exactly one error toast, with the detail taken from the fixed
// status table in domain.MessageForStatus. The outcome itself is passed
// through unchanged: the error or response the caller sees is exactly what
// the transport produced, and nothing is retried or swallowed here.
func ErrorNotify(notifier notify.Notifier) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				publishError(notifier, 0, "")
				return nil, err
			}
			if resp.StatusCode >= http.StatusBadRequest {
				publishError(notifier, resp.StatusCode, http.StatusText(resp.StatusCode))
			}
			return resp, nil
		})
	}
}

func publishError(notifier notify.Notifier, status int, detail string) {
	if notifier == nil {
		return
	}
	notifier.Publish(notify.Toast{
		Severity: notify.SeverityError,
		Summary:  "Error",
		Detail:   domain.MessageForStatus(status, detail),
	})
}
