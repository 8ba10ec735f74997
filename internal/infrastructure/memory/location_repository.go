package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria del puerto LocationRepository.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create guarda una nueva ubicación.
func (r *LocationRepo) Create(_ context.Context, location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.locations[location.ID] = *location
	r.store.locSeq = append(r.store.locSeq, location.ID)
	return nil
}

// GetByID devuelve la ubicación o nil si no existe.
func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	location, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	return &location, nil
}

// List devuelve las ubicaciones en orden de inserción, con paginación.
func (r *LocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return pageLocations(r.store, limit, offset), nil
}

// Update reemplaza los campos mutables de la ubicación.
func (r *LocationRepo) Update(_ context.Context, location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.locations[location.ID]; !ok {
		return nil
	}
	r.store.locations[location.ID] = *location
	return nil
}

// Delete elimina la ubicación.
func (r *LocationRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.locations, id)
	r.store.locSeq = removeID(r.store.locSeq, id)
	return nil
}

func pageLocations(s *Store, limit, offset int) []*entity.Location {
	var out []*entity.Location
	for i := offset; i < len(s.locSeq) && len(out) < limit; i++ {
		if location, ok := s.locations[s.locSeq[i]]; ok {
			l := location
			out = append(out, &l)
		}
	}
	return out
}

func removeID(seq []string, id string) []string {
	kept := seq[:0]
	for _, v := range seq {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
