package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/userdesk/internal/middleware"
	"github.com/simp-lee/userdesk/internal/notify"
	"github.com/simp-lee/userdesk/internal/pkg"
	"github.com/simp-lee/userdesk/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules       []Module
	Notifier      *notify.Center
	RemoteBaseURL string
	HealthClient  *http.Client // bare client, outside the pipeline
	Mode          string       // "debug" or "release"
	CSRFSecret    string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	// Static assets
	if err := registerStaticRoutes(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	// Health check: reports whether the remote API is reachable.
	r.GET("/health", healthHandler(deps.HealthClient, deps.RemoteBaseURL))

	// Toast event stream for the browser.
	r.GET("/events", eventsHandler(deps.Notifier))

	// Home page (with CSRF so templates have a token)
	r.GET("/", middleware.CSRF(deps.CSRFSecret), func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", gin.H{
			"CSRFToken": middleware.GetCSRFToken(c),
		})
	})

	// API routes, no CSRF
	api := r.Group("/api/v1")

	// Page routes, with CSRF
	pages := r.Group("/")
	pages.Use(middleware.CSRF(deps.CSRFSecret))

	// Register module routes
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api, pages)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler pings the remote users API with a minimal list request.
// The bare health client bypasses the pipeline so a down upstream does not
// spam toast notifications.
func healthHandler(client *http.Client, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		remoteStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if client == nil || baseURL == "" {
			remoteStatus = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, baseURL+"/users?skip=0&limit=1", nil)
			if err != nil {
				remoteStatus = "error"
			} else {
				resp, err := client.Do(req)
				if err != nil || resp.StatusCode >= http.StatusBadRequest {
					remoteStatus = "error"
				}
				if resp != nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			}
			if remoteStatus != "ok" {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"remote_api": remoteStatus,
			},
		})
	}
}

// eventsHandler streams toasts to the browser as server-sent events. Each
// toast is one "toast" event whose data is the JSON-encoded notify.Toast.
func eventsHandler(center *notify.Center) gin.HandlerFunc {
	return func(c *gin.Context) {
		if center == nil {
			c.Status(http.StatusNoContent)
			return
		}

		ch, cancel := center.Subscribe()
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Stream(func(w io.Writer) bool {
			select {
			case t, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("toast", t)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

// noRouteHandler renders a 404 HTML page for browser requests or a JSON
// response for API clients.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}

		renderError(c, http.StatusNotFound, "not found")
	}
}

func registerStaticRoutes(r *gin.Engine, mode string) error {
	if mode == "debug" {
		debugStaticFS, err := resolveDebugStaticFS()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(debugStaticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}

	// Release mode: serve from embed.FS with cache headers.
	staticFS, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	projectRoot := filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", ".."))
	staticDir := filepath.Join(projectRoot, "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}

	return os.DirFS(staticDir), nil
}

// cacheStaticHandler serves embedded static assets with a day of caching.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
