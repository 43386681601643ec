package domain

import "github.com/simp-lee/pagination"

// PageRequest holds pagination parameters for list operations.
// The remote API only supports offset pagination (skip/limit), so there is
// no sorting or filtering here.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageResult is the paginated result envelope used by services and handlers.
type PageResult[T any] = pagination.Pagination[T]
