package services

import (
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.LineItemRepo)
	container.Expense = NewExpenseService(repos.LineItemRepo, repos.AccountRepo, repos.PeriodRepo)
	container.Income = NewIncomeService(repos.IncomeRepo, repos.AccountRepo)
	container.Goal = NewGoalService(repos.GoalRepo, repos.AccountRepo)

	// Reporting reuses the goal read path so dashboard counts reflect
	// settled lifecycle state.
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.PeriodRepo, repos.GoalRepo, container.Goal)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.PeriodSvcFacade  = (*periodService)(nil)
	_ portssvc.ExpenseSvcFacade = (*expenseService)(nil)
	_ portssvc.IncomeSvcFacade  = (*incomeService)(nil)
	_ portssvc.GoalSvcFacade    = (*goalService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
