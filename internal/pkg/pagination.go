package pkg

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/userdesk/internal/domain"
)

const (
	defaultPage = 1
	maxPageSize = 100
)

// ParsePageRequest extracts pagination parameters from query params,
// clamping them to sane bounds. defaultPageSize is the configured page size
// used when the query carries none.
func ParsePageRequest(c *gin.Context, defaultPageSize int) domain.PageRequest {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
	}
}

// NewPageResult creates a PageResult with computed TotalPages
// (ceil(total/pageSize)).
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *domain.PageResult[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	if items == nil {
		items = []T{}
	}

	return &domain.PageResult[T]{
		Items:        items,
		TotalItems:   total,
		CurrentPage:  req.Page,
		ItemsPerPage: req.PageSize,
		TotalPages:   totalPages,
	}
}
