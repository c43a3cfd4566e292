package labor

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xpertfs/xpert-app-backend/internal/platform/querier"
)

const entryColumns = `id, company_id, employee_id, entry_date, regular_hours, overtime_hours, double_hours,
    project_id, payment_status, payment_id, created_at`

func scanEntry(row pgx.Row) (TimeEntry, error) {
	var entry TimeEntry
	var projectID, paymentID *string
	err := row.Scan(&entry.ID, &entry.CompanyID, &entry.EmployeeID, &entry.Date,
		&entry.RegularHours, &entry.OvertimeHours, &entry.DoubleHours,
		&projectID, &entry.PaymentStatus, &paymentID, &entry.CreatedAt)
	if err != nil {
		return TimeEntry{}, err
	}
	if projectID != nil {
		entry.ProjectID = *projectID
	}
	if paymentID != nil {
		entry.PaymentID = *paymentID
	}
	return entry, nil
}

func (s *Store) CreateEntry(ctx context.Context, companyID string, entry TimeEntry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (company_id, employee_id, entry_date, regular_hours, overtime_hours, double_hours, project_id, payment_status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, companyID, entry.EmployeeID, entry.Date, entry.RegularHours, entry.OvertimeHours, entry.DoubleHours,
		nullIfEmpty(entry.ProjectID), StatusPending).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetEntry(ctx context.Context, companyID, entryID string) (TimeEntry, error) {
	entry, err := scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE company_id = $1 AND id = $2
  `, companyID, entryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, ErrEntryNotFound
	}
	return entry, err
}

func (s *Store) ListEntries(ctx context.Context, companyID string, filter EntryFilter) ([]TimeEntry, error) {
	query := strings.Builder{}
	query.WriteString(`
    SELECT ` + entryColumns + `
    FROM time_entries
    WHERE company_id = $1`)
	args := []any{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query.WriteString(" AND employee_id = $" + strconv.Itoa(len(args)))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query.WriteString(" AND project_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query.WriteString(" AND payment_status = $" + strconv.Itoa(len(args)))
	}
	if filter.ExcludeCancelled {
		args = append(args, StatusCancelled)
		query.WriteString(" AND payment_status <> $" + strconv.Itoa(len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query.WriteString(" AND entry_date >= $" + strconv.Itoa(len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query.WriteString(" AND entry_date <= $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" ORDER BY entry_date, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		args = append(args, filter.Offset)
		query.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := s.DB.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) UpdateEntry(ctx context.Context, companyID string, entry TimeEntry) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_entries
    SET entry_date = $3, regular_hours = $4, overtime_hours = $5, double_hours = $6, project_id = $7
    WHERE company_id = $1 AND id = $2
  `, companyID, entry.ID, entry.Date, entry.RegularHours, entry.OvertimeHours, entry.DoubleHours,
		nullIfEmpty(entry.ProjectID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, companyID, entryID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM time_entries
    WHERE company_id = $1 AND id = $2
  `, companyID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ApproveEntries bulk-transitions pending entries to approved. Entries in any
// other state are skipped; the affected count is the only signal.
func (s *Store) ApproveEntries(ctx context.Context, companyID string, entryIDs []string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_entries
    SET payment_status = $3
    WHERE company_id = $1 AND id = ANY($2) AND payment_status = $4
  `, companyID, entryIDs, StatusApproved, StatusPending)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CancelEntries(ctx context.Context, companyID string, entryIDs []string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_entries
    SET payment_status = $3
    WHERE company_id = $1 AND id = ANY($2) AND payment_status IN ($4, $5)
  `, companyID, entryIDs, StatusCancelled, StatusPending, StatusApproved)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// LockApprovedEntries selects, with row locks, the approved entries from the
// batch that belong to the employee. A concurrent settlement that already
// marked them paid leaves nothing to lock, so the second caller gets an empty
// set instead of double-paying.
func (s *Store) LockApprovedEntries(ctx context.Context, q querier.Querier, companyID, employeeID string, entryIDs []string) ([]TimeEntry, error) {
	rows, err := q.Query(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE company_id = $1 AND employee_id = $2 AND id = ANY($3) AND payment_status = $4
    ORDER BY entry_date, id
    FOR UPDATE
  `, companyID, employeeID, entryIDs, StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) InsertPayment(ctx context.Context, q querier.Querier, payment Payment) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO payments (company_id, employee_id, payment_date, regular_amount, overtime_amount, double_amount, deductions, total_amount, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, payment.CompanyID, payment.EmployeeID, payment.PaymentDate, payment.RegularAmount,
		payment.OvertimeAmount, payment.DoubleAmount, payment.Deductions, payment.TotalAmount,
		payment.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) MarkEntriesPaid(ctx context.Context, q querier.Querier, companyID, paymentID string, entryIDs []string) (int64, error) {
	tag, err := q.Exec(ctx, `
    UPDATE time_entries
    SET payment_status = $3, payment_id = $4
    WHERE company_id = $1 AND id = ANY($2)
  `, companyID, entryIDs, StatusPaid, paymentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GetPayment(ctx context.Context, companyID, paymentID string) (Payment, error) {
	var payment Payment
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, employee_id, payment_date, regular_amount, overtime_amount, double_amount, deductions, total_amount, status, created_at
    FROM payments
    WHERE company_id = $1 AND id = $2
  `, companyID, paymentID).Scan(&payment.ID, &payment.CompanyID, &payment.EmployeeID, &payment.PaymentDate,
		&payment.RegularAmount, &payment.OvertimeAmount, &payment.DoubleAmount, &payment.Deductions,
		&payment.TotalAmount, &payment.Status, &payment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, ErrPaymentNotFound
	}
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

func (s *Store) ListPayments(ctx context.Context, companyID string, filter PaymentFilter) ([]Payment, error) {
	query := strings.Builder{}
	query.WriteString(`
    SELECT id, company_id, employee_id, payment_date, regular_amount, overtime_amount, double_amount, deductions, total_amount, status, created_at
    FROM payments
    WHERE company_id = $1`)
	args := []any{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query.WriteString(" AND employee_id = $" + strconv.Itoa(len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query.WriteString(" AND payment_date >= $" + strconv.Itoa(len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query.WriteString(" AND payment_date <= $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" ORDER BY payment_date DESC, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		args = append(args, filter.Offset)
		query.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := s.DB.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var payment Payment
		if err := rows.Scan(&payment.ID, &payment.CompanyID, &payment.EmployeeID, &payment.PaymentDate,
			&payment.RegularAmount, &payment.OvertimeAmount, &payment.DoubleAmount, &payment.Deductions,
			&payment.TotalAmount, &payment.Status, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// Postgres aborts one of two serializable transactions touching the same
// rows with 40001; deadlock detection reports 40P01. Both are retryable.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return ErrTransactionConflict
	}
	return err
}
