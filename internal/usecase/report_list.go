package usecase

import (
	"fmt"
	"sort"
	"strings"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/dto/response"
)

const (
	userReportsPerPage  = 5
	adminReportsPerPage = 10
)

// MatchesFilter reports whether the flag contains filter (case-sensitive) or
// the description contains it ignoring case. An empty filter matches everything.
func MatchesFilter(report *entity.Report, filter string) bool {
	if filter == "" {
		return true
	}
	if strings.Contains(string(report.Flag), filter) {
		return true
	}
	return strings.Contains(strings.ToLower(report.Description), strings.ToLower(filter))
}

func FilterReports(reports []*entity.Report, filter string) []*entity.Report {
	out := make([]*entity.Report, 0, len(reports))
	for _, r := range reports {
		if MatchesFilter(r, filter) {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst orders by created_at descending, ties broken by id.
func SortNewestFirst(reports []*entity.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID.String() < reports[j].ID.String()
	})
}

// Paginate returns items [(page-1)*perPage, page*perPage). Pages past the end are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return []T{}
	}
	if page-1 > len(items)/perPage {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type reportPresenter struct {
	signer ImageSigner
}

func (p reportPresenter) imageURL(key string) (string, error) {
	if p.signer == nil || key == "" {
		return "", nil
	}
	url, err := p.signer.URL(key)
	if err != nil {
		return "", fmt.Errorf("sign image %s: %w", key, err)
	}
	return url, nil
}

func (p reportPresenter) report(report *entity.Report) (response.ReportResponse, error) {
	urls := make([]string, 0, len(report.ImageKeys))
	for _, key := range report.ImageKeys {
		url, err := p.imageURL(key)
		if err != nil {
			return response.ReportResponse{}, err
		}
		urls = append(urls, url)
	}
	return response.ReportToResponse(report, urls), nil
}

func (p reportPresenter) reports(reports []*entity.Report) ([]response.ReportResponse, error) {
	out := make([]response.ReportResponse, 0, len(reports))
	for _, r := range reports {
		resp, err := p.report(r)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (p reportPresenter) marker(report *entity.Report) (response.MarkerResponse, error) {
	url, err := p.imageURL(report.FirstImageKey())
	if err != nil {
		return response.MarkerResponse{}, err
	}
	return response.MarkerToResponse(report, url), nil
}
