package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmarchal/boccia-manager/models"
	"github.com/tmarchal/boccia-manager/repositories"
)

// memoryTournamentRepo is an in-memory stand-in for the postgres repository.
// It clones on every read and write, mirroring the JSON document round trip
// of the real store, so tests catch services that forget to save.
type memoryTournamentRepo struct {
	nextID int
	items  map[int]*models.Tournament
}

func newMemoryTournamentRepo() *memoryTournamentRepo {
	return &memoryTournamentRepo{nextID: 1, items: make(map[int]*models.Tournament)}
}

func (r *memoryTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	r.items[t.ID] = cloneTournament(t)
	return nil
}

func (r *memoryTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repositories.ErrTournamentNotFound, id)
	}
	return cloneTournament(t), nil
}

func (r *memoryTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, cloneTournament(t))
	}
	return out, nil
}

func (r *memoryTournamentRepo) Save(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	if _, ok := r.items[t.ID]; !ok {
		return fmt.Errorf("%w: id %d", repositories.ErrTournamentNotFound, t.ID)
	}
	r.items[t.ID] = cloneTournament(t)
	return nil
}

func (r *memoryTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: id %d", repositories.ErrTournamentNotFound, id)
	}
	delete(r.items, id)
	return nil
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	out := &models.Tournament{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

// seedTournament stores a prebuilt tournament and returns its id.
func seedTournament(repo *memoryTournamentRepo, t *models.Tournament) int {
	t.ID = repo.nextID
	repo.nextID++
	repo.items[t.ID] = cloneTournament(t)
	return t.ID
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
