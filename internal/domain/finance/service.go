package finance

import (
	"context"
	"time"

	"github.com/xpertfs/xpert-app-backend/internal/domain/expenses"
	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
)

type Service struct {
	projects     *projects.Service
	labor        *labor.Service
	expenses     *expenses.Store
	statementDir string
	currency     string
}

func NewService(projectsSvc *projects.Service, laborSvc *labor.Service, expenseStore *expenses.Store, statementDir, currency string) *Service {
	return &Service{
		projects:     projectsSvc,
		labor:        laborSvc,
		expenses:     expenseStore,
		statementDir: statementDir,
		currency:     currency,
	}
}

func (s *Service) ProjectFinancials(ctx context.Context, companyID, projectID string) (ProjectFinancials, error) {
	project, err := s.projects.Store().GetProject(ctx, companyID, projectID)
	if err != nil {
		return ProjectFinancials{}, err
	}
	completion, err := s.projects.Completion(ctx, companyID, projectID)
	if err != nil {
		return ProjectFinancials{}, err
	}
	laborCost, err := s.labor.ProjectLaborCost(ctx, companyID, projectID)
	if err != nil {
		return ProjectFinancials{}, err
	}
	expenseCost, err := s.expenses.ProjectTotal(ctx, companyID, projectID)
	if err != nil {
		return ProjectFinancials{}, err
	}
	return Compute(completion, project.Value, laborCost, expenseCost), nil
}

func (s *Service) ProjectedFinancials(ctx context.Context, companyID, projectID string) (ProjectedFinancials, error) {
	financials, err := s.ProjectFinancials(ctx, companyID, projectID)
	if err != nil {
		return ProjectedFinancials{}, err
	}
	return Project(financials), nil
}

func (s *Service) Trend(ctx context.Context, companyID, projectID string, from, to time.Time) ([]TrendPoint, error) {
	costed, err := s.labor.EntriesWithCosts(ctx, companyID, projectID, from, to)
	if err != nil {
		return nil, err
	}
	expenseList, err := s.expenses.List(ctx, companyID, expenses.Filter{
		ProjectID: projectID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}
	return MonthlyTrend(costed, expenseList), nil
}
