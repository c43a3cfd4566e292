package projects

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetProject(ctx context.Context, companyID, projectID string) (Project, error) {
	var project Project
	var contractorID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, client_id, contractor_id, name, value, status, created_at
    FROM projects
    WHERE company_id = $1 AND id = $2
  `, companyID, projectID).Scan(&project.ID, &project.CompanyID, &project.ClientID, &contractorID,
		&project.Name, &project.Value, &project.Status, &project.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	if err != nil {
		return Project{}, err
	}
	if contractorID != nil {
		project.ContractorID = *contractorID
	}
	return project, nil
}

func (s *Store) ListProjects(ctx context.Context, companyID string, filter Filter) ([]Project, error) {
	query := strings.Builder{}
	query.WriteString(`
    SELECT id, company_id, client_id, contractor_id, name, value, status, created_at
    FROM projects
    WHERE company_id = $1`)
	args := []any{companyID}

	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query.WriteString(" AND client_id = $" + strconv.Itoa(len(args)))
	}
	if filter.ContractorID != "" {
		args = append(args, filter.ContractorID)
		query.WriteString(" AND contractor_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" ORDER BY name")

	rows, err := s.DB.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var project Project
		var contractorID *string
		if err := rows.Scan(&project.ID, &project.CompanyID, &project.ClientID, &contractorID,
			&project.Name, &project.Value, &project.Status, &project.CreatedAt); err != nil {
			return nil, err
		}
		if contractorID != nil {
			project.ContractorID = *contractorID
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, project Project) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO projects (company_id, client_id, contractor_id, name, value, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, project.CompanyID, project.ClientID, nullIfEmpty(project.ContractorID), project.Name,
		project.Value, project.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateScope(ctx context.Context, companyID string, scope Scope) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO scopes (project_id, name)
    SELECT p.id, $3 FROM projects p WHERE p.company_id = $1 AND p.id = $2
    RETURNING id
  `, companyID, scope.ProjectID, scope.Name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateSubScope(ctx context.Context, companyID string, subScope SubScope) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO sub_scopes (scope_id, name)
    SELECT sc.id, $3
    FROM scopes sc
    JOIN projects p ON p.id = sc.project_id
    WHERE p.company_id = $1 AND sc.id = $2
    RETURNING id
  `, companyID, subScope.ScopeID, subScope.Name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrScopeNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateWorkItem(ctx context.Context, companyID string, item WorkItem) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_items (project_id, code, description, unit, unit_price)
    SELECT p.id, $3, $4, $5, $6 FROM projects p WHERE p.company_id = $1 AND p.id = $2
    RETURNING id
  `, companyID, item.ProjectID, item.Code, item.Description, item.Unit, item.UnitPrice).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetWorkItem(ctx context.Context, companyID, workItemID string) (WorkItem, error) {
	var item WorkItem
	err := s.DB.QueryRow(ctx, `
    SELECT w.id, w.project_id, w.code, w.description, w.unit, w.unit_price
    FROM work_items w
    JOIN projects p ON p.id = w.project_id
    WHERE p.company_id = $1 AND w.id = $2
  `, companyID, workItemID).Scan(&item.ID, &item.ProjectID, &item.Code, &item.Description,
		&item.Unit, &item.UnitPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkItem{}, ErrWorkItemNotFound
	}
	if err != nil {
		return WorkItem{}, err
	}
	return item, nil
}

func (s *Store) CreateQuantity(ctx context.Context, companyID string, quantity WorkItemQuantity) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_item_quantities (sub_scope_id, work_item_id, quantity, completed)
    SELECT ss.id, $3, $4, $5
    FROM sub_scopes ss
    JOIN scopes sc ON sc.id = ss.scope_id
    JOIN projects p ON p.id = sc.project_id
    WHERE p.company_id = $1 AND ss.id = $2
    RETURNING id
  `, companyID, quantity.SubScopeID, quantity.WorkItemID, quantity.Quantity, quantity.Completed).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSubScopeNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetQuantity(ctx context.Context, companyID, quantityID string) (WorkItemQuantity, error) {
	var quantity WorkItemQuantity
	err := s.DB.QueryRow(ctx, `
    SELECT q.id, q.sub_scope_id, q.work_item_id, q.quantity, q.completed
    FROM work_item_quantities q
    JOIN sub_scopes ss ON ss.id = q.sub_scope_id
    JOIN scopes sc ON sc.id = ss.scope_id
    JOIN projects p ON p.id = sc.project_id
    WHERE p.company_id = $1 AND q.id = $2
  `, companyID, quantityID).Scan(&quantity.ID, &quantity.SubScopeID, &quantity.WorkItemID,
		&quantity.Quantity, &quantity.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkItemQuantity{}, ErrQuantityNotFound
	}
	if err != nil {
		return WorkItemQuantity{}, err
	}
	return quantity, nil
}

func (s *Store) UpdateCompleted(ctx context.Context, companyID, quantityID string, completed float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_item_quantities q
    SET completed = $3
    FROM sub_scopes ss
    JOIN scopes sc ON sc.id = ss.scope_id
    JOIN projects p ON p.id = sc.project_id
    WHERE q.sub_scope_id = ss.id AND p.company_id = $1 AND q.id = $2
  `, companyID, quantityID, completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuantityNotFound
	}
	return nil
}

// LoadTree reads the full work breakdown of a project: scopes, sub-scopes and
// quantity lines joined with their work item unit prices.
func (s *Store) LoadTree(ctx context.Context, companyID, projectID string) (Tree, error) {
	project, err := s.GetProject(ctx, companyID, projectID)
	if err != nil {
		return Tree{}, err
	}
	tree := Tree{Project: project}

	scopeRows, err := s.DB.Query(ctx, `
    SELECT id, project_id, name
    FROM scopes
    WHERE project_id = $1
    ORDER BY name, id
  `, projectID)
	if err != nil {
		return Tree{}, err
	}
	defer scopeRows.Close()

	scopeIndex := map[string]int{}
	for scopeRows.Next() {
		var scope Scope
		if err := scopeRows.Scan(&scope.ID, &scope.ProjectID, &scope.Name); err != nil {
			return Tree{}, err
		}
		scopeIndex[scope.ID] = len(tree.Scopes)
		tree.Scopes = append(tree.Scopes, ScopeNode{Scope: scope})
	}
	if err := scopeRows.Err(); err != nil {
		return Tree{}, err
	}

	subRows, err := s.DB.Query(ctx, `
    SELECT ss.id, ss.scope_id, ss.name
    FROM sub_scopes ss
    JOIN scopes sc ON sc.id = ss.scope_id
    WHERE sc.project_id = $1
    ORDER BY ss.name, ss.id
  `, projectID)
	if err != nil {
		return Tree{}, err
	}
	defer subRows.Close()

	subIndex := map[string][2]int{}
	for subRows.Next() {
		var subScope SubScope
		if err := subRows.Scan(&subScope.ID, &subScope.ScopeID, &subScope.Name); err != nil {
			return Tree{}, err
		}
		parent, ok := scopeIndex[subScope.ScopeID]
		if !ok {
			continue
		}
		node := &tree.Scopes[parent]
		subIndex[subScope.ID] = [2]int{parent, len(node.SubScopes)}
		node.SubScopes = append(node.SubScopes, SubScopeNode{SubScope: subScope})
	}
	if err := subRows.Err(); err != nil {
		return Tree{}, err
	}

	lineRows, err := s.DB.Query(ctx, `
    SELECT q.id, q.sub_scope_id, q.work_item_id, q.quantity, q.completed, w.unit_price
    FROM work_item_quantities q
    JOIN work_items w ON w.id = q.work_item_id
    JOIN sub_scopes ss ON ss.id = q.sub_scope_id
    JOIN scopes sc ON sc.id = ss.scope_id
    WHERE sc.project_id = $1
    ORDER BY q.id
  `, projectID)
	if err != nil {
		return Tree{}, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line QuantityLine
		if err := lineRows.Scan(&line.Quantity.ID, &line.Quantity.SubScopeID, &line.Quantity.WorkItemID,
			&line.Quantity.Quantity, &line.Quantity.Completed, &line.UnitPrice); err != nil {
			return Tree{}, err
		}
		position, ok := subIndex[line.Quantity.SubScopeID]
		if !ok {
			continue
		}
		node := &tree.Scopes[position[0]].SubScopes[position[1]]
		node.Lines = append(node.Lines, line)
	}
	return tree, lineRows.Err()
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
