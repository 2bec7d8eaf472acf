package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tmarchal/boccia-manager/models"
	"github.com/lib/pq"
)

var (
	ErrCourtNotFound     = errors.New("court not found")
	ErrCourtNameConflict = errors.New("a court with this name already exists")
)

// CourtRepository stores courts. Courts are shared across tournaments, so
// they live in their own table rather than inside the state document.
type CourtRepository interface {
	Create(ctx context.Context, court *models.Court) error
	GetByID(ctx context.Context, id string) (*models.Court, error)
	List(ctx context.Context) ([]*models.Court, error)
	Update(ctx context.Context, court *models.Court) error
	Delete(ctx context.Context, id string) error
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) Create(ctx context.Context, c *models.Court) error {
	query := `
		INSERT INTO courts (id, name, available, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Available, c.Description).Scan(&c.CreatedAt)
	return handleCourtError(err)
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, id string) (*models.Court, error) {
	query := `SELECT id, name, available, description, created_at FROM courts WHERE id = $1`

	c := &models.Court{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Available, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCourtRepository) List(ctx context.Context) ([]*models.Court, error) {
	query := `SELECT id, name, available, description, created_at FROM courts ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]*models.Court, 0)
	for rows.Next() {
		c := &models.Court{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Available, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

func (r *postgresCourtRepository) Update(ctx context.Context, c *models.Court) error {
	query := `UPDATE courts SET name = $1, available = $2, description = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Available, c.Description, c.ID)
	if err != nil {
		return handleCourtError(err)
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM courts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func handleCourtError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrCourtNameConflict
	}
	return err
}
