package mapping

import (
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/models"
)

// ToModelPeriodBlock converts a domain PeriodBlock to a model PeriodBlock
func ToModelPeriodBlock(d domain.PeriodBlock) models.PeriodBlock {
	return models.PeriodBlock{
		BlockID:      d.BlockID,
		OwnerID:      d.OwnerID,
		Title:        d.Title,
		Kind:         string(d.Kind),
		StartDay:     string(d.StartDay),
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Status:       string(d.Status),
		TotalExpense: d.TotalExpense,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriodBlock converts a model PeriodBlock to a domain PeriodBlock
func ToDomainPeriodBlock(m models.PeriodBlock) domain.PeriodBlock {
	return domain.PeriodBlock{
		BlockID:      m.BlockID,
		OwnerID:      m.OwnerID,
		Title:        m.Title,
		Kind:         domain.BlockKind(m.Kind),
		StartDay:     domain.DayTag(m.StartDay),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Status:       domain.BlockStatus(m.Status),
		TotalExpense: m.TotalExpense,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriodBlockSlice converts a slice of model PeriodBlocks to domain PeriodBlocks
func ToDomainPeriodBlockSlice(ms []models.PeriodBlock) []domain.PeriodBlock {
	ds := make([]domain.PeriodBlock, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriodBlock(m)
	}
	return ds
}
