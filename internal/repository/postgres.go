package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"core/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository is the read-only gateway to the listing store. The
// listing subsystem owns the tables; this repository only retrieves candidate
// rows for scoring.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SearchCandidates fetches a bounded, recency-ordered superset of apartments
// matching the intent's coarse range filters, with the first cover image and
// the complex summary joined in. The scorer narrows this set afterwards, so
// only cheap store-level filters are applied here.
func (r *PostgresRepository) SearchCandidates(ctx context.Context, intent model.SearchIntent, fetchLimit int) ([]model.Apartment, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	status := model.StatusActive
	if intent.Status == model.StatusSold {
		status = model.StatusSold
	}
	whereClauses = append(whereClauses, fmt.Sprintf("a.status = $%d", argIndex))
	args = append(args, status)
	argIndex++

	if intent.MinPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.price >= $%d", argIndex))
		args = append(args, *intent.MinPrice)
		argIndex++
	}
	if intent.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.price <= $%d", argIndex))
		args = append(args, *intent.MaxPrice)
		argIndex++
	}
	if intent.MinRooms != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.rooms >= $%d", argIndex))
		args = append(args, *intent.MinRooms)
		argIndex++
	}
	if intent.MaxRooms != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.rooms <= $%d", argIndex))
		args = append(args, *intent.MaxRooms)
		argIndex++
	}
	if intent.MinArea != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.area >= $%d", argIndex))
		args = append(args, *intent.MinArea)
		argIndex++
	}
	if intent.MaxArea != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.area <= $%d", argIndex))
		args = append(args, *intent.MaxArea)
		argIndex++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT
			a.id, a.title, a.description, a.price, a.rooms, a.area, a.floor,
			a.status, a.created_at,
			(
				SELECT i.url FROM apartment_images i
				WHERE i.apartment_id = a.id
				ORDER BY i.position ASC, i.id ASC
				LIMIT 1
			) AS cover_image,
			c.name AS complex_name, c.city, c.address, c.nearby_places
		FROM apartments a
		LEFT JOIN complexes c ON c.id = a.complex_id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d
	`, whereClause, argIndex)
	args = append(args, fetchLimit)

	var apartments []model.Apartment
	if err := r.db.SelectContext(ctx, &apartments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	return apartments, nil
}

// GetApartmentByID retrieves a single apartment with its complex summary.
func (r *PostgresRepository) GetApartmentByID(ctx context.Context, id int64) (*model.Apartment, error) {
	var apt model.Apartment
	query := `
		SELECT
			a.id, a.title, a.description, a.price, a.rooms, a.area, a.floor,
			a.status, a.created_at,
			(
				SELECT i.url FROM apartment_images i
				WHERE i.apartment_id = a.id
				ORDER BY i.position ASC, i.id ASC
				LIMIT 1
			) AS cover_image,
			c.name AS complex_name, c.city, c.address, c.nearby_places
		FROM apartments a
		LEFT JOIN complexes c ON c.id = a.complex_id
		WHERE a.id = $1
	`
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}
	return &apt, nil
}
