package employees

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (s *Store) Get(ctx context.Context, companyID, employeeID string) (Employee, error) {
	var employee Employee
	var unionClassID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, first_name, last_name, type, rate, union_class_id, active, created_at
    FROM employees
    WHERE company_id = $1 AND id = $2
  `, companyID, employeeID).Scan(&employee.ID, &employee.CompanyID, &employee.FirstName, &employee.LastName,
		&employee.Type, &employee.Rate, &unionClassID, &employee.Active, &employee.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	if unionClassID != nil {
		employee.UnionClassID = *unionClassID
	}
	return employee, nil
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Employee, error) {
	query := strings.Builder{}
	query.WriteString(`
    SELECT id, company_id, first_name, last_name, type, rate, union_class_id, active, created_at
    FROM employees
    WHERE company_id = $1`)
	args := []any{companyID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query.WriteString(" AND type = $" + strconv.Itoa(len(args)))
	}
	if filter.UnionClassID != "" {
		args = append(args, filter.UnionClassID)
		query.WriteString(" AND union_class_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query.WriteString(" AND active = $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" ORDER BY last_name, first_name")

	rows, err := s.DB.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Employee
	for rows.Next() {
		var employee Employee
		var unionClassID *string
		if err := rows.Scan(&employee.ID, &employee.CompanyID, &employee.FirstName, &employee.LastName,
			&employee.Type, &employee.Rate, &unionClassID, &employee.Active, &employee.CreatedAt); err != nil {
			return nil, err
		}
		if unionClassID != nil {
			employee.UnionClassID = *unionClassID
		}
		list = append(list, employee)
	}
	return list, rows.Err()
}

func (s *Store) Create(ctx context.Context, companyID string, employee Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (company_id, first_name, last_name, type, rate, union_class_id, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, companyID, employee.FirstName, employee.LastName, employee.Type, employee.Rate,
		nullIfEmpty(employee.UnionClassID), employee.Active).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, companyID string, employee Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $3, last_name = $4, type = $5, rate = $6, union_class_id = $7, active = $8
    WHERE company_id = $1 AND id = $2
  `, companyID, employee.ID, employee.FirstName, employee.LastName, employee.Type, employee.Rate,
		nullIfEmpty(employee.UnionClassID), employee.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) Deactivate(ctx context.Context, companyID, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET active = false
    WHERE company_id = $1 AND id = $2
  `, companyID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
