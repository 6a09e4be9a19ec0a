package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreatePeriodRequest defines an accounting period. Both dates are inclusive.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}

// ToDraft converts the request into the service input.
func (r CreatePeriodRequest) ToDraft() domain.AccountingPeriodDraft {
	return domain.AccountingPeriodDraft{
		Name:      r.Name,
		StartDate: r.StartDate.Time,
		EndDate:   r.EndDate.Time,
	}
}

// ListPeriodsParams defines query parameters for listing periods.
type ListPeriodsParams struct {
	Status string     `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	From   *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To     *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// ToFilter converts the query into a period filter.
func (p ListPeriodsParams) ToFilter() domain.PeriodFilter {
	return domain.PeriodFilter{
		Status: domain.PeriodStatus(p.Status),
		From:   p.From,
		To:     p.To,
	}
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Status        domain.PeriodStatus `json:"status"`
	ClosedBy      *string             `json:"closedBy,omitempty"`
	ClosedAt      *time.Time          `json:"closedAt,omitempty"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ListPeriodsResponse wraps a list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its response DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:      p.PeriodID,
		Name:          p.Name,
		StartDate:     FormatDate(p.StartDate),
		EndDate:       FormatDate(p.EndDate),
		Status:        p.Status,
		ClosedBy:      p.ClosedBy,
		ClosedAt:      p.ClosedAt,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToListPeriodsResponse converts periods to the list response.
func ToListPeriodsResponse(periods []domain.AccountingPeriod) ListPeriodsResponse {
	res := ListPeriodsResponse{Periods: make([]PeriodResponse, len(periods))}
	for i := range periods {
		res.Periods[i] = ToPeriodResponse(&periods[i])
	}
	return res
}
