package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	periodRepo   portsrepo.PeriodRepositoryFacade
	lineItemRepo portsrepo.LineItemReader
}

// NewPeriodService creates a new period-block service
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, lineItemRepo portsrepo.LineItemReader) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo, lineItemRepo: lineItemRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// findOwnedBlock fetches a block and hides blocks of other owners behind
// NotFound.
func (s *periodService) findOwnedBlock(ctx context.Context, ownerID, blockID string) (*domain.PeriodBlock, error) {
	block, err := s.periodRepo.FindBlockByID(ctx, blockID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find block by ID",
				slog.String("block_id", blockID))
		}
		return nil, err
	}
	if block.OwnerID != ownerID {
		s.LogDebug(ctx, "Block found but belongs to a different owner",
			slog.String("block_id", blockID),
			slog.String("requested_by", ownerID))
		return nil, apperrors.ErrNotFound
	}
	return block, nil
}

// settleExpired runs the lazy expiry tick: an active block whose window has
// elapsed is closed in place. Already-closed and still-running blocks pass
// through unchanged.
func (s *periodService) settleExpired(ctx context.Context, block *domain.PeriodBlock, now time.Time) error {
	if block.IsClosed() || !block.IsExpired(now) {
		return nil
	}
	if err := s.periodRepo.CloseBlock(ctx, block.BlockID, block.OwnerID, now); err != nil {
		s.LogError(ctx, err, "Failed to close expired block",
			slog.String("block_id", block.BlockID))
		return err
	}
	block.Status = domain.BlockClosed
	block.LastUpdatedAt = now
	block.LastUpdatedBy = block.OwnerID
	s.LogInfo(ctx, "Expired block closed",
		slog.String("block_id", block.BlockID),
		slog.String("end_date", block.EndDate.Format(time.DateOnly)))
	return nil
}

func (s *periodService) CreateBlock(ctx context.Context, ownerID string, req dto.CreateBlockRequest) (*domain.PeriodBlock, error) {
	now := time.Now().UTC()
	today := domain.DateOnly(now)

	existing, err := s.periodRepo.FindActiveBlockContaining(ctx, ownerID, today)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for an active block",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an active block already covers today (%s)", apperrors.ErrStateConflict, existing.BlockID)
	}

	title := req.Title
	if title == "" {
		title = domain.DefaultBlockTitle(req.Kind, today)
	}

	block := domain.PeriodBlock{
		BlockID:      uuid.NewString(),
		OwnerID:      ownerID,
		Title:        title,
		Kind:         req.Kind,
		StartDay:     domain.DayTagFor(today),
		StartDate:    today,
		EndDate:      domain.ComputeEndDate(req.Kind, today),
		Status:       domain.BlockActive,
		TotalExpense: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.periodRepo.SaveBlock(ctx, block); err != nil {
		s.LogError(ctx, err, "Failed to save block",
			slog.String("block_id", block.BlockID),
			slog.String("owner_id", ownerID))
		return nil, err
	}

	s.LogInfo(ctx, "Block created successfully",
		slog.String("block_id", block.BlockID),
		slog.String("kind", string(block.Kind)),
		slog.String("end_date", block.EndDate.Format(time.DateOnly)))
	return &block, nil
}

func (s *periodService) GetBlockDetail(ctx context.Context, ownerID string, blockID string) (*domain.PeriodBlock, []domain.LineItem, error) {
	block, err := s.findOwnedBlock(ctx, ownerID, blockID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.settleExpired(ctx, block, time.Now().UTC()); err != nil {
		return nil, nil, err
	}

	items, err := s.lineItemRepo.FindAllItemsByBlock(ctx, blockID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load block items",
			slog.String("block_id", blockID))
		return nil, nil, err
	}

	return block, items, nil
}

func (s *periodService) ListBlocks(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.PeriodBlock, *string, domain.BlockStatusCounts, error) {
	blocks, token, err := s.periodRepo.ListBlocks(ctx, ownerID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list blocks",
			slog.String("owner_id", ownerID))
		return nil, nil, domain.BlockStatusCounts{}, err
	}

	now := time.Now().UTC()
	for i := range blocks {
		if err := s.settleExpired(ctx, &blocks[i], now); err != nil {
			return nil, nil, domain.BlockStatusCounts{}, err
		}
	}

	active, closed, err := s.periodRepo.CountBlocksByStatus(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count blocks",
			slog.String("owner_id", ownerID))
		return nil, nil, domain.BlockStatusCounts{}, err
	}

	return blocks, token, domain.BlockStatusCounts{Active: active, Closed: closed}, nil
}

func (s *periodService) UpdateBlockTitle(ctx context.Context, ownerID string, blockID string, req dto.UpdateBlockTitleRequest) (*domain.PeriodBlock, error) {
	block, err := s.findOwnedBlock(ctx, ownerID, blockID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdateBlockTitle(ctx, blockID, req.Title, ownerID, now); err != nil {
		s.LogError(ctx, err, "Failed to rename block",
			slog.String("block_id", blockID))
		return nil, err
	}

	block.Title = req.Title
	block.LastUpdatedAt = now
	block.LastUpdatedBy = ownerID

	s.LogInfo(ctx, "Block renamed",
		slog.String("block_id", blockID))
	return block, nil
}

func (s *periodService) CloseIfExpired(ctx context.Context, ownerID string, blockID string) (*domain.PeriodBlock, error) {
	block, err := s.findOwnedBlock(ctx, ownerID, blockID)
	if err != nil {
		return nil, err
	}
	if err := s.settleExpired(ctx, block, time.Now().UTC()); err != nil {
		return nil, err
	}
	return block, nil
}
