package pgsql

import (
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		LineItemRepo:  newPgxLineItemRepository(dbPool, accountRepo),
		IncomeRepo:    newPgxIncomeRepository(dbPool, accountRepo),
		GoalRepo:      newPgxGoalRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
