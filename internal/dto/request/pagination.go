package request

import (
	"net/url"

	"furniture-catalog/pkg/utils"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"limit" validate:"min=1,max=100"`
}

// NewPaginatedRequest reads page and limit from a query string, falling
// back to the defaults on missing or non-positive values.
func NewPaginatedRequest(q url.Values) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(q.Get("page"), 1),
		PerPage: utils.ParseInt(q.Get("limit"), DefaultPageSize),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPageSize
	}
	if p.PerPage > MaxPageSize {
		return MaxPageSize
	}
	return p.PerPage
}
