package user

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/userdesk/internal/domain"
	"github.com/simp-lee/userdesk/internal/pkg"
)

// UserHandler handles REST API requests for the user resource. It is a thin
// JSON surface over the same service the pages use, so API callers see the
// same cache/gateway behavior as the browser.
type UserHandler struct {
	svc      domain.UserService
	pageSize int
}

// NewUserHandler creates a new UserHandler with the given service and
// default list page size.
func NewUserHandler(svc domain.UserService, pageSize int) *UserHandler {
	return &UserHandler{svc: svc, pageSize: pageSize}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserForm
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreateUser(c.Request.Context(), req.ToUser())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, created)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewValidationError("id", "must be a positive integer"))
		return
	}

	u, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, u)
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c, h.pageSize)

	result, err := h.svc.ListUsers(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewValidationError("id", "must be a positive integer"))
		return
	}

	var req UserForm
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.UpdateUser(c.Request.Context(), id, req.ToUser())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, updated)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewValidationError("id", "must be a positive integer"))
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// parseID extracts and validates the "id" URL parameter.
func parseID(c *gin.Context) (int, error) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	return id, nil
}
