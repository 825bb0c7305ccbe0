// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
)

// EstimateRepo implements estimate.Repository against PostgreSQL.
type EstimateRepo struct{ db *sql.DB }

// NewEstimateRepo creates a Postgres-backed estimate repository.
func NewEstimateRepo(db *sql.DB) *EstimateRepo { return &EstimateRepo{db: db} }

func (r *EstimateRepo) InsertEstimate(ctx context.Context, est *domain.Estimate) (string, error) {
	if est.ID == "" {
		est.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO estimates
			(id, organization_id, number, name, customer_name, address, postal_code, city, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`, est.ID, est.OrganizationID, est.Number, est.Name, est.CustomerName,
		est.Address, est.PostalCode, est.City, est.Status, nullFloat(est.Total))
	if err != nil {
		return "", fmt.Errorf("insert estimate %s: %w", est.Number, err)
	}
	return est.ID, nil
}

func (r *EstimateRepo) InsertLines(ctx context.Context, estimateID string, lines []domain.EstimateLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin line batch: %w", err)
	}
	defer tx.Rollback()

	for _, line := range lines {
		id := line.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO estimate_lines
				(id, estimate_id, position, category, description, quantity, unit, unit_price, subtotal, hours)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, id, estimateID, line.Position, line.Category, line.Description,
			nullFloat(line.Quantity), line.Unit, nullFloat(line.UnitPrice),
			nullFloat(line.Subtotal), nullFloat(line.Hours))
		if err != nil {
			return fmt.Errorf("insert line %d of estimate %s: %w", line.Position, estimateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit line batch: %w", err)
	}
	return nil
}

func (r *EstimateRepo) ExistingNumbers(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT number FROM estimates WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("query estimate numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan estimate number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

func (r *EstimateRepo) List(ctx context.Context, orgID string, f estimate.ListFilter) ([]domain.Estimate, int, error) {
	where := `WHERE organization_id = $1`
	args := []any{orgID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND (number ILIKE $%d OR name ILIKE $%d OR customer_name ILIKE $%d)",
			len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM estimates `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count estimates: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, organization_id, number, name, customer_name, address, postal_code, city, status, total, created_at
		FROM estimates %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	var out []domain.Estimate
	for rows.Next() {
		est, err := scanEstimate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *est)
	}
	return out, total, rows.Err()
}

func (r *EstimateRepo) Get(ctx context.Context, orgID, id string) (*domain.Estimate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, number, name, customer_name, address, postal_code, city, status, total, created_at
		FROM estimates
		WHERE organization_id = $1 AND id = $2
	`, orgID, id)

	est, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, estimate.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.db.QueryContext(ctx, `
		SELECT id, estimate_id, position, category, description, quantity, unit, unit_price, subtotal, hours
		FROM estimate_lines
		WHERE estimate_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query estimate lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var l domain.EstimateLine
		var qty, price, sub, hours sql.NullFloat64
		if err := lines.Scan(&l.ID, &l.EstimateID, &l.Position, &l.Category,
			&l.Description, &qty, &l.Unit, &price, &sub, &hours); err != nil {
			return nil, fmt.Errorf("scan estimate line: %w", err)
		}
		l.Quantity = floatPtr(qty)
		l.UnitPrice = floatPtr(price)
		l.Subtotal = floatPtr(sub)
		l.Hours = floatPtr(hours)
		est.Lines = append(est.Lines, l)
	}
	return est, lines.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row rowScanner) (*domain.Estimate, error) {
	var est domain.Estimate
	var total sql.NullFloat64
	err := row.Scan(&est.ID, &est.OrganizationID, &est.Number, &est.Name,
		&est.CustomerName, &est.Address, &est.PostalCode, &est.City,
		&est.Status, &total, &est.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan estimate: %w", err)
	}
	est.Total = floatPtr(total)
	return &est, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
