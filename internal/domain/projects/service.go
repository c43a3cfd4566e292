package projects

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *Store {
	return s.store
}

// Completion loads the project tree and rolls it up.
func (s *Service) Completion(ctx context.Context, companyID, projectID string) (ProjectCompletion, error) {
	tree, err := s.store.LoadTree(ctx, companyID, projectID)
	if err != nil {
		return ProjectCompletion{}, err
	}
	return Rollup(tree), nil
}

// CreateQuantity attaches a work item to a sub-scope. Both mutation
// boundaries, creation here and progress updates below, enforce
// 0 <= completed <= quantity; the roll-up itself never re-validates.
func (s *Service) CreateQuantity(ctx context.Context, companyID string, quantity WorkItemQuantity) (string, error) {
	if quantity.Completed < 0 {
		return "", ErrNegativeProgress
	}
	if quantity.Completed > quantity.Quantity {
		return "", ErrCompletedExceedsQuantity
	}
	if _, err := s.store.GetWorkItem(ctx, companyID, quantity.WorkItemID); err != nil {
		return "", err
	}
	return s.store.CreateQuantity(ctx, companyID, quantity)
}

// ReportProgress writes a new completed value for one quantity row.
func (s *Service) ReportProgress(ctx context.Context, companyID, quantityID string, completed float64) (WorkItemQuantity, error) {
	if completed < 0 {
		return WorkItemQuantity{}, ErrNegativeProgress
	}
	quantity, err := s.store.GetQuantity(ctx, companyID, quantityID)
	if err != nil {
		return WorkItemQuantity{}, err
	}
	if completed > quantity.Quantity {
		return WorkItemQuantity{}, ErrCompletedExceedsQuantity
	}
	if err := s.store.UpdateCompleted(ctx, companyID, quantityID, completed); err != nil {
		return WorkItemQuantity{}, err
	}
	quantity.Completed = completed
	return quantity, nil
}
