package pipeline

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxLoggedBody caps how much of a response body is buffered for logging.
const maxLoggedBody = 1 << 20 // 1 MiB

// Logging returns the pipeline stage that records every request dispatch,
// response, and failure through the structured logger.
//
// Request and response bodies are logged after redaction (see sanitizeBody);
// the bodies seen by the caller are byte-for-byte what the transport carried.
// Durations are measured from dispatch to response arrival.
func Logging(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			log.LogAttrs(req.Context(), slog.LevelInfo, "http request",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("headers", headerMap(req.Header)),
				slog.Any("body", sanitizeBody(requestBody(req))),
				slog.Time("timestamp", start),
			)

			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			if err != nil {
				log.LogAttrs(req.Context(), slog.LevelError, "http error",
					slog.String("method", req.Method),
					slog.String("url", req.URL.String()),
					slog.String("status", "Unknown"),
					slog.String("status_text", "Unknown Error"),
					slog.Int64("duration_ms", duration.Milliseconds()),
					slog.String("error", err.Error()),
					slog.Time("timestamp", time.Now()),
				)
				return nil, err
			}

			body := responseBody(resp)

			if resp.StatusCode >= http.StatusBadRequest {
				log.LogAttrs(req.Context(), slog.LevelError, "http error",
					slog.String("method", req.Method),
					slog.String("url", req.URL.String()),
					slog.Int("status", resp.StatusCode),
					slog.String("status_text", http.StatusText(resp.StatusCode)),
					slog.Int64("duration_ms", duration.Milliseconds()),
					slog.Any("error", sanitizeBody(body)),
					slog.Time("timestamp", time.Now()),
				)
				return resp, nil
			}

			log.LogAttrs(req.Context(), slog.LevelInfo, "http response",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode),
				slog.String("status_text", http.StatusText(resp.StatusCode)),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.Any("headers", headerMap(resp.Header)),
				slog.Any("body", sanitizeBody(body)),
				slog.Time("timestamp", time.Now()),
			)
			return resp, nil
		})
	}
}

// requestBody returns a copy of the request body without consuming it.
// Requests built by the gateway always carry GetBody; anything else is
// logged without a body rather than risk draining the stream.
func requestBody(req *http.Request) []byte {
	if req.Body == nil || req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxLoggedBody))
	if err != nil {
		return nil
	}
	return b
}

// responseBody buffers the response body for logging and restores it so the
// caller can still read it in full.
func responseBody(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	rest, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(io.MultiReader(bytes.NewReader(b), bytes.NewReader(rest)))
	if err != nil {
		return nil
	}
	return b
}

// headerMap flattens http.Header for logging, joining repeated values.
func headerMap(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
