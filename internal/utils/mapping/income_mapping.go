package mapping

import (
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/models"
)

// ToModelIncomeRecord converts a domain IncomeRecord to a model IncomeRecord
func ToModelIncomeRecord(d domain.IncomeRecord) models.IncomeRecord {
	return models.IncomeRecord{
		IncomeID:    d.IncomeID,
		OwnerID:     d.OwnerID,
		AccountID:   d.AccountID,
		Source:      string(d.Source),
		Amount:      d.Amount,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainIncomeRecord converts a model IncomeRecord to a domain IncomeRecord
func ToDomainIncomeRecord(m models.IncomeRecord) domain.IncomeRecord {
	return domain.IncomeRecord{
		IncomeID:    m.IncomeID,
		OwnerID:     m.OwnerID,
		AccountID:   m.AccountID,
		Source:      domain.IncomeSource(m.Source),
		Amount:      m.Amount,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainIncomeRecordSlice converts a slice of model IncomeRecords to domain IncomeRecords
func ToDomainIncomeRecordSlice(ms []models.IncomeRecord) []domain.IncomeRecord {
	ds := make([]domain.IncomeRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainIncomeRecord(m)
	}
	return ds
}
