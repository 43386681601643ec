package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/userdesk/internal/domain"
	"github.com/simp-lee/userdesk/internal/middleware"
	"github.com/simp-lee/userdesk/internal/notify"
	"github.com/simp-lee/userdesk/internal/pkg"
	"github.com/simp-lee/userdesk/internal/store"
)

// UserPageHandler renders the user screens and handles their htmx
// submissions: a paginated list, a read-only detail view, and the
// create/edit form.
//
// Success toasts are published on the notification channel and triggered
// immediately on the responding request via HX-Trigger. Failure toasts for
// remote calls come from the pipeline's error stage, so handlers only render
// the page-level outcome.
type UserPageHandler struct {
	svc      domain.UserService
	store    *store.Store
	notifier notify.Notifier
	pageSize int
}

// NewUserPageHandler creates a UserPageHandler.
func NewUserPageHandler(svc domain.UserService, st *store.Store, notifier notify.Notifier, pageSize int) *UserPageHandler {
	return &UserPageHandler{svc: svc, store: st, notifier: notifier, pageSize: pageSize}
}

// ListPage renders the user list page with pagination.
// GET /users
func (h *UserPageHandler) ListPage(c *gin.Context) {
	req := pkg.ParsePageRequest(c, h.pageSize)

	result, err := h.svc.ListUsers(c.Request.Context(), req)
	if err != nil {
		// The store carries the translated message; keep the page up with
		// whatever was loaded before instead of a bare error page.
		snapshot := h.store.Snapshot()
		c.HTML(http.StatusOK, "user/list.html", gin.H{
			"Users":     snapshot.Users,
			"Error":     snapshot.Error,
			"BaseURL":   "/users",
			"CSRFToken": middleware.GetCSRFToken(c),
		})
		return
	}

	c.HTML(http.StatusOK, "user/list.html", gin.H{
		"Users":      result.Items,
		"Pagination": result,
		"BaseURL":    "/users",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}

// DetailPage renders a single user. The service answers from the session
// store when the record is on the loaded page, so navigating from the list
// costs no round trip.
// GET /users/:id
func (h *UserPageHandler) DetailPage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}

	u, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	c.HTML(http.StatusOK, "user/detail.html", gin.H{
		"User":      u,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// NewPage renders the empty user form.
// GET /users/new
func (h *UserPageHandler) NewPage(c *gin.Context) {
	c.HTML(http.StatusOK, "user/form.html", gin.H{
		"Form":      UserForm{},
		"IsEdit":    false,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// EditPage renders the edit form. When the record cannot be loaded the
// caller is sent back to the list rather than left on a broken form.
// GET /users/:id/edit
func (h *UserPageHandler) EditPage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}

	u, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return
		}
		c.Redirect(http.StatusSeeOther, "/users")
		return
	}

	c.HTML(http.StatusOK, "user/form.html", gin.H{
		"User":      u,
		"Form":      FromUser(*u),
		"IsEdit":    true,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// CreateHTMX handles user creation via htmx form submission.
// POST /users
func (h *UserPageHandler) CreateHTMX(c *gin.Context) {
	var req UserForm
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, nil, req, false, "", formFieldErrors(err, &req))
		return
	}

	created, err := h.svc.CreateUser(c.Request.Context(), req.ToUser())
	if err != nil {
		h.renderForm(c, nil, req, false, pageErrorMessage(err), validationFieldErrors(err))
		return
	}

	h.toast(c, notify.SeveritySuccess, "User created", created.FullName())
	c.Header("HX-Redirect", "/users")
	c.Status(http.StatusOK)
}

// UpdateHTMX handles user update via htmx form submission.
// PUT /users/:id
func (h *UserPageHandler) UpdateHTMX(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}

	var req UserForm
	if err := c.ShouldBind(&req); err != nil {
		u := domain.User{ID: id}
		h.renderForm(c, &u, req, true, "", formFieldErrors(err, &req))
		return
	}

	updated, err := h.svc.UpdateUser(c.Request.Context(), id, req.ToUser())
	if err != nil {
		u := domain.User{ID: id}
		h.renderForm(c, &u, req, true, pageErrorMessage(err), validationFieldErrors(err))
		return
	}

	h.toast(c, notify.SeveritySuccess, "User updated", updated.FullName())
	c.Header("HX-Redirect", "/users")
	c.Status(http.StatusOK)
}

// DeleteHTMX handles user deletion via htmx.
// DELETE /users/:id
func (h *UserPageHandler) DeleteHTMX(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Header("HX-Reswap", "none")
		h.toast(c, notify.SeverityError, "Error", "Invalid user id")
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		// The pipeline already announced the failure; just keep the row.
		c.Header("HX-Reswap", "none")
		c.Status(http.StatusOK)
		return
	}

	h.toast(c, notify.SeveritySuccess, "User deleted", "")
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// renderForm re-renders the user form with the submitted values, an optional
// page-level error, and per-field messages.
func (h *UserPageHandler) renderForm(c *gin.Context, u *domain.User, form UserForm, isEdit bool, pageErr string, fieldErrs map[string]string) {
	data := gin.H{
		"Form":        form,
		"IsEdit":      isEdit,
		"Error":       pageErr,
		"FieldErrors": fieldErrs,
		"CSRFToken":   middleware.GetCSRFToken(c),
	}
	if u != nil {
		data["User"] = u
	}
	c.HTML(http.StatusOK, "user/form.html", data)
}

// toast publishes a notification and triggers it on the current response so
// the submitting page shows it without waiting for the event stream.
func (h *UserPageHandler) toast(c *gin.Context, severity notify.Severity, summary, detail string) {
	if h.notifier != nil {
		h.notifier.Publish(notify.Toast{Severity: severity, Summary: summary, Detail: detail})
	}
	setShowToastHeader(c, severity, summary, detail)
}

// setShowToastHeader sets the HX-Trigger response header with a showToast event.
func setShowToastHeader(c *gin.Context, severity notify.Severity, summary, detail string) {
	message := summary
	if detail != "" {
		message = summary + ": " + detail
	}
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    string(severity),
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// pageErrorMessage returns the banner message for a failed submission.
// Validation errors render inline only, so they contribute no banner.
func pageErrorMessage(err error) string {
	if domain.IsValidation(err) {
		return ""
	}
	return domain.UserMessage(err)
}

// validationFieldErrors converts a service-level validation error into the
// per-field message map the form template renders.
func validationFieldErrors(err error) map[string]string {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return map[string]string{ve.Field: ve.Reason}
}

// formFieldErrors converts binding errors into a map keyed by form field
// name, preferring the struct's form tags over lowercased field names.
func formFieldErrors(err error, obj any) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"form": "please check the submitted values"}
	}

	formTags := buildFormTagMap(obj)

	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := formTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		out[name] = fieldMessage(fe)
	}
	return out
}

// fieldMessage renders one validator failure as a short human message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// buildFormTagMap returns a map from struct field name to its form tag name.
func buildFormTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if tag != "" && tag != "-" {
			m[f.Name] = tag
		}
	}
	return m
}
