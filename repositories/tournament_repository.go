package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmarchal/boccia-manager/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository persists tournaments as single JSON state documents.
// The whole tournament (teams, pools, matches, bracket, schedule) travels as
// one value, so a save is always atomic and there is nothing to join.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Save(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	state, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament state: %w", err)
	}

	query := `
		INSERT INTO tournaments (state)
		VALUES ($1)
		RETURNING id, created_at, updated_at`

	return executor.QueryRowContext(ctx, query, state).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT id, state, created_at, updated_at FROM tournaments WHERE id = $1`

	return scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT id, state, created_at, updated_at FROM tournaments ORDER BY created_at DESC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Save(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	state, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament state: %w", err)
	}

	query := `UPDATE tournaments SET state = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, state, t.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	executor := r.getExecutor(nil)
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTournament rebuilds a tournament from its row. The id and timestamps
// in the state document are stale copies; the columns win.
func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t     models.Tournament
		state []byte
	)
	if err := row.Scan(&t.ID, &state, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	id, createdAt, updatedAt := t.ID, t.CreatedAt, t.UpdatedAt
	if err := json.Unmarshal(state, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament %d state: %w", id, err)
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, createdAt, updatedAt
	return &t, nil
}
