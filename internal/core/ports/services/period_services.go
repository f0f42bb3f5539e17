package services

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/dto"
)

// PeriodReaderSvc defines read operations for period blocks. Every read
// path runs the expiry tick first, so callers always observe a block whose
// status reflects the calendar.
type PeriodReaderSvc interface {
	// GetBlockDetail retrieves a block and all of its line items.
	GetBlockDetail(ctx context.Context, ownerID string, blockID string) (*domain.PeriodBlock, []domain.LineItem, error)

	// ListBlocks retrieves the owner's blocks with pagination, plus the
	// active/closed counts.
	ListBlocks(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.PeriodBlock, *string, domain.BlockStatusCounts, error)
}

// PeriodWriterSvc defines write operations for period blocks
type PeriodWriterSvc interface {
	// CreateBlock opens a new block starting today. Fails with
	// ErrStateConflict when an active block already contains today.
	CreateBlock(ctx context.Context, ownerID string, req dto.CreateBlockRequest) (*domain.PeriodBlock, error)

	// UpdateBlockTitle renames a block.
	UpdateBlockTitle(ctx context.Context, ownerID string, blockID string, req dto.UpdateBlockTitleRequest) (*domain.PeriodBlock, error)

	// CloseIfExpired closes the block when its window has elapsed and
	// returns the refreshed block. Idempotent: closed blocks pass through
	// unchanged.
	CloseIfExpired(ctx context.Context, ownerID string, blockID string) (*domain.PeriodBlock, error)
}

// PeriodSvcFacade combines all period-block service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
