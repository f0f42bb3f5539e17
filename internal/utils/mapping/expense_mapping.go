package mapping

import (
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/models"
)

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		ItemID:        d.ItemID,
		BlockID:       d.BlockID,
		AccountID:     d.AccountID,
		AccountName:   d.AccountName,
		Name:          d.Name,
		Amount:        d.Amount,
		PaymentMethod: string(d.PaymentMethod),
		Day:           string(d.Day),
		Date:          d.Date,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		ItemID:        m.ItemID,
		BlockID:       m.BlockID,
		AccountID:     m.AccountID,
		AccountName:   m.AccountName,
		Name:          m.Name,
		Amount:        m.Amount,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Day:           domain.DayTag(m.Day),
		Date:          m.Date,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems to domain LineItems
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
