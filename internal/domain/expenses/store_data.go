package expenses

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) Create(ctx context.Context, expense Expense) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO expenses (company_id, project_id, vendor_id, category, amount, expense_date, description)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, expense.CompanyID, nullIfEmpty(expense.ProjectID), nullIfEmpty(expense.VendorID),
		expense.Category, expense.Amount, expense.Date, expense.Description).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, companyID, expenseID string) (Expense, error) {
	expense, err := scanExpense(s.DB.QueryRow(ctx, `
    SELECT id, company_id, project_id, vendor_id, category, amount, expense_date, description, created_at
    FROM expenses
    WHERE company_id = $1 AND id = $2
  `, companyID, expenseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrExpenseNotFound
	}
	return expense, err
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Expense, error) {
	query := strings.Builder{}
	query.WriteString(`
    SELECT id, company_id, project_id, vendor_id, category, amount, expense_date, description, created_at
    FROM expenses
    WHERE company_id = $1`)
	args := []any{companyID}

	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query.WriteString(" AND project_id = $" + strconv.Itoa(len(args)))
	}
	if filter.VendorID != "" {
		args = append(args, filter.VendorID)
		query.WriteString(" AND vendor_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query.WriteString(" AND category = $" + strconv.Itoa(len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query.WriteString(" AND expense_date >= $" + strconv.Itoa(len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query.WriteString(" AND expense_date <= $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" ORDER BY expense_date, id")

	rows, err := s.DB.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, expense)
	}
	return list, rows.Err()
}

// ProjectTotal sums expense amounts for a project.
func (s *Store) ProjectTotal(ctx context.Context, companyID, projectID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0)
    FROM expenses
    WHERE company_id = $1 AND project_id = $2
  `, companyID, projectID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) Delete(ctx context.Context, companyID, expenseID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM expenses
    WHERE company_id = $1 AND id = $2
  `, companyID, expenseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (Expense, error) {
	var expense Expense
	var projectID, vendorID *string
	err := row.Scan(&expense.ID, &expense.CompanyID, &projectID, &vendorID, &expense.Category,
		&expense.Amount, &expense.Date, &expense.Description, &expense.CreatedAt)
	if err != nil {
		return Expense{}, err
	}
	if projectID != nil {
		expense.ProjectID = *projectID
	}
	if vendorID != nil {
		expense.VendorID = *vendorID
	}
	return expense, nil
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
