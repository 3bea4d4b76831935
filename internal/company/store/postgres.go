package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

// Migrate applies the company schema. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply company schema: %w", err)
	}
	return nil
}

// Postgres persists companies. Identifier columns hold compact BIGINTs
// written and read through the identifier types' Valuer and Scanner.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const companyColumns = `id, number, name, vat, postcode, created_by, created_at`

func (s *Postgres) Create(ctx context.Context, c *models.Company) error {
	query := `
		INSERT INTO companies (id, number, name, vat, postcode, postcode_outward, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (number) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		c.ID, c.Number, c.Name, c.VAT, c.Postcode, c.Postcode.Outward().String(), c.CreatedBy, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("company %s: %w", c.Number, sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *Postgres) FindByNumber(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE number = $1`, number)
	c, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

// FindByNumbers loads every existing company in one round trip.
func (s *Postgres) FindByNumbers(ctx context.Context, numbers []identifier.CompanyRegistrationNumber) ([]*models.Company, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	compacts := make([]int64, len(numbers))
	for i, n := range numbers {
		compacts[i] = int64(n.Compact())
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE number = ANY($1)`, pq.Array(compacts))
	if err != nil {
		return nil, fmt.Errorf("find companies: %w", err)
	}
	return collect(rows)
}

func (s *Postgres) ListByOutward(ctx context.Context, outward identifier.OutwardCode, limit int) ([]*models.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE postcode_outward = $1
		ORDER BY created_at, number
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, outward.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list companies by outward code: %w", err)
	}
	return collect(rows)
}

func (s *Postgres) Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.Number, &c.Name, &c.VAT, &c.Postcode, &c.CreatedBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collect(rows *sql.Rows) ([]*models.Company, error) {
	defer rows.Close()
	var out []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}
