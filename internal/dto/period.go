package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBlockRequest defines the data needed to open a new period block.
// The block starts today; the end date is derived from the kind.
type CreateBlockRequest struct {
	Kind  domain.BlockKind `json:"kind" binding:"required,oneof=weekly monthly"`
	Title string           `json:"title" binding:"omitempty,max=200"` // Auto-generated when empty
}

// UpdateBlockTitleRequest renames a block.
type UpdateBlockTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// ListBlocksParams defines query parameters for listing blocks.
type ListBlocksParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// BlockResponse defines the data returned for a period block.
type BlockResponse struct {
	BlockID      string             `json:"blockID"`
	Title        string             `json:"title"`
	Kind         domain.BlockKind   `json:"kind"`
	StartDay     domain.DayTag      `json:"startDay"`
	StartDate    string             `json:"startDate"` // YYYY-MM-DD
	EndDate      string             `json:"endDate"`
	Status       domain.BlockStatus `json:"status"`
	TotalExpense decimal.Decimal    `json:"totalExpense"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ToBlockResponse converts a domain.PeriodBlock to BlockResponse DTO
func ToBlockResponse(b *domain.PeriodBlock) BlockResponse {
	return BlockResponse{
		BlockID:      b.BlockID,
		Title:        b.Title,
		Kind:         b.Kind,
		StartDay:     b.StartDay,
		StartDate:    b.StartDate.Format(time.DateOnly),
		EndDate:      b.EndDate.Format(time.DateOnly),
		Status:       b.Status,
		TotalExpense: b.TotalExpense,
		CreatedAt:    b.CreatedAt,
	}
}

// ListBlocksResponse wraps the paginated block list with status counts.
type ListBlocksResponse struct {
	Blocks    []BlockResponse          `json:"blocks"`
	Counts    domain.BlockStatusCounts `json:"counts"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToListBlocksResponse converts blocks plus pagination state to the list DTO
func ToListBlocksResponse(blocks []domain.PeriodBlock, counts domain.BlockStatusCounts, nextToken *string) ListBlocksResponse {
	res := make([]BlockResponse, len(blocks))
	for i := range blocks {
		res[i] = ToBlockResponse(&blocks[i])
	}
	return ListBlocksResponse{Blocks: res, Counts: counts, NextToken: nextToken}
}

// BlockDayGroup is one calendar day of a block detail view.
type BlockDayGroup struct {
	Day     domain.DayTag      `json:"day"`
	Date    string             `json:"date"` // YYYY-MM-DD
	IsToday bool               `json:"isToday"`
	Total   decimal.Decimal    `json:"total"`
	Items   []ExpenseResponse  `json:"items"`
}

// BlockDetailResponse is a block with its line items grouped per day over
// the whole window, including empty days.
type BlockDetailResponse struct {
	Block BlockResponse   `json:"block"`
	Days  []BlockDayGroup `json:"days"`
}

// ToBlockDetailResponse groups a block's items by calendar day. Every day
// of the window appears, in order, so charts render gaps as zeroes.
func ToBlockDetailResponse(b *domain.PeriodBlock, items []domain.LineItem, today time.Time) BlockDetailResponse {
	byDate := make(map[string][]domain.LineItem)
	for _, item := range items {
		key := domain.DateOnly(item.Date).Format(time.DateOnly)
		byDate[key] = append(byDate[key], item)
	}

	todayKey := domain.DateOnly(today).Format(time.DateOnly)
	var days []BlockDayGroup
	for d := domain.DateOnly(b.StartDate); !d.After(domain.DateOnly(b.EndDate)); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		group := BlockDayGroup{
			Day:     domain.DayTagFor(d),
			Date:    key,
			IsToday: key == todayKey,
			Total:   decimal.Zero,
			Items:   []ExpenseResponse{},
		}
		for _, item := range byDate[key] {
			group.Total = group.Total.Add(item.Amount)
			group.Items = append(group.Items, ToExpenseResponse(&item))
		}
		days = append(days, group)
	}

	return BlockDetailResponse{Block: ToBlockResponse(b), Days: days}
}
