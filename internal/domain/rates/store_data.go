package rates

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xpertfs/xpert-app-backend/internal/platform/querier"
)

func (s *Store) GetUnionClass(ctx context.Context, companyID, unionClassID string) (UnionClass, error) {
	var class UnionClass
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, created_at
    FROM union_classes
    WHERE company_id = $1 AND id = $2
  `, companyID, unionClassID).Scan(&class.ID, &class.CompanyID, &class.Name, &class.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return UnionClass{}, ErrUnionClassNotFound
	}
	if err != nil {
		return UnionClass{}, err
	}
	return class, nil
}

func (s *Store) ListUnionClasses(ctx context.Context, companyID string) ([]UnionClass, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, created_at
    FROM union_classes
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []UnionClass
	for rows.Next() {
		var class UnionClass
		if err := rows.Scan(&class.ID, &class.CompanyID, &class.Name, &class.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

func (s *Store) CreateUnionClass(ctx context.Context, companyID, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO union_classes (company_id, name)
    VALUES ($1,$2)
    RETURNING id
  `, companyID, name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListBaseRates(ctx context.Context, companyID, unionClassID string) ([]BaseRate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.union_class_id, r.regular_rate, r.overtime_rate, r.double_rate, r.effective_date, r.end_date
    FROM base_rates r
    JOIN union_classes c ON c.id = r.union_class_id
    WHERE c.company_id = $1 AND r.union_class_id = $2
    ORDER BY r.effective_date DESC
  `, companyID, unionClassID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []BaseRate
	for rows.Next() {
		var rate BaseRate
		if err := rows.Scan(&rate.ID, &rate.UnionClassID, &rate.RegularRate, &rate.OvertimeRate,
			&rate.DoubleRate, &rate.EffectiveDate, &rate.EndDate); err != nil {
			return nil, err
		}
		history = append(history, rate)
	}
	return history, rows.Err()
}

// CloseOpenBaseRate sets end_date on the current open-ended record. Runs inside
// the AddBaseRate transaction so there is never a window with two open rates.
func (s *Store) CloseOpenBaseRate(ctx context.Context, q querier.Querier, unionClassID string, endDate time.Time) error {
	_, err := q.Exec(ctx, `
    UPDATE base_rates
    SET end_date = $2
    WHERE union_class_id = $1 AND end_date IS NULL
  `, unionClassID, endDate)
	return err
}

func (s *Store) InsertBaseRate(ctx context.Context, q querier.Querier, rate BaseRate) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO base_rates (union_class_id, regular_rate, overtime_rate, double_rate, effective_date, end_date)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, rate.UnionClassID, rate.RegularRate, rate.OvertimeRate, rate.DoubleRate, rate.EffectiveDate, rate.EndDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListCustomRates(ctx context.Context, companyID, unionClassID string) ([]CustomRate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.union_class_id, r.name, r.type, r.value
    FROM custom_rates r
    JOIN union_classes c ON c.id = r.union_class_id
    WHERE c.company_id = $1 AND r.union_class_id = $2
    ORDER BY r.name
  `, companyID, unionClassID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CustomRate
	for rows.Next() {
		var rate CustomRate
		if err := rows.Scan(&rate.ID, &rate.UnionClassID, &rate.Name, &rate.Type, &rate.Value); err != nil {
			return nil, err
		}
		list = append(list, rate)
	}
	return list, rows.Err()
}

func (s *Store) CreateCustomRate(ctx context.Context, rate CustomRate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO custom_rates (union_class_id, name, type, value)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, rate.UnionClassID, rate.Name, rate.Type, rate.Value).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
