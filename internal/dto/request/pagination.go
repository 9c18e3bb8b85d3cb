package request

import "billboard-report/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return 10
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}

// Normalized clamps page to [1, utils.MaxPage(per_page)] and applies
// defaultPerPage when unset.
func (p PaginatedRequest) Normalized(defaultPerPage int) PaginatedRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	if maxPage := utils.MaxPage(p.PerPage); p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}
