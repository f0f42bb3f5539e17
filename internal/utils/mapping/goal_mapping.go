package mapping

import (
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/models"
)

// ToModelGoal converts a domain Goal to a model Goal. Account links are
// persisted separately in goal_accounts.
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:       d.GoalID,
		OwnerID:      d.OwnerID,
		Title:        d.Title,
		TargetAmount: d.TargetAmount,
		StartDate:    d.StartDate,
		Deadline:     d.Deadline,
		Status:       string(d.Status),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model Goal to a domain Goal with its account links
func ToDomainGoal(m models.Goal, accountIDs []string) domain.Goal {
	return domain.Goal{
		GoalID:       m.GoalID,
		OwnerID:      m.OwnerID,
		Title:        m.Title,
		TargetAmount: m.TargetAmount,
		StartDate:    m.StartDate,
		Deadline:     m.Deadline,
		Status:       domain.GoalStatus(m.Status),
		AccountIDs:   accountIDs,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
