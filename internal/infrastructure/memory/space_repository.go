package memory

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.SpaceRepository = (*SpaceRepo)(nil)

type SpaceRepo struct {
	store *Store
	tx    *state
}

func (r *SpaceRepo) Create(_ context.Context, space *entity.Space) error {
	return r.store.with(r.tx, func(st *state) error {
		if nameTaken(st, space.OwnerID, space.Name, "") {
			return domain.ErrDuplicateName
		}
		st.spaces[space.ID] = spaceRow{s: *space, seq: st.next()}
		return nil
	})
}

func (r *SpaceRepo) GetByID(_ context.Context, id string) (*entity.Space, error) {
	var out *entity.Space
	err := r.store.with(r.tx, func(st *state) error {
		if row, ok := st.spaces[id]; ok {
			s := row.s
			out = &s
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate no necesita bloqueo: las transacciones del store ya son serializadas.
func (r *SpaceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Space, error) {
	return r.GetByID(ctx, id)
}

func (r *SpaceRepo) GetByOwnerAndName(_ context.Context, ownerID, name string) (*entity.Space, error) {
	var out *entity.Space
	err := r.store.with(r.tx, func(st *state) error {
		for _, row := range st.spaces {
			if row.s.OwnerID == ownerID && row.s.Name == name {
				s := row.s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SpaceRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	err := r.store.with(r.tx, func(st *state) error {
		for _, row := range st.spaces {
			if row.s.OwnerID == ownerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SpaceRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.SpaceWithCount, error) {
	var rows []spaceRow
	counts := make(map[string]int)
	err := r.store.with(r.tx, func(st *state) error {
		for _, row := range st.spaces {
			if row.s.OwnerID == ownerID {
				rows = append(rows, row)
			}
		}
		for _, pr := range st.products {
			counts[pr.p.SpaceID]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewest(rows,
		func(r spaceRow) int64 { return r.s.CreatedAt.UnixNano() },
		func(r spaceRow) int64 { return r.seq })
	out := make([]*entity.SpaceWithCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.SpaceWithCount{Space: row.s, ProductCount: counts[row.s.ID]})
	}
	return out, nil
}

func (r *SpaceRepo) Rename(_ context.Context, space *entity.Space) error {
	return r.store.with(r.tx, func(st *state) error {
		row, ok := st.spaces[space.ID]
		if !ok {
			return nil
		}
		if nameTaken(st, row.s.OwnerID, space.Name, space.ID) {
			return domain.ErrDuplicateName
		}
		row.s.Name = space.Name
		row.s.UpdatedAt = space.UpdatedAt
		st.spaces[space.ID] = row
		return nil
	})
}

// Delete elimina el espacio y sus productos (cascada).
func (r *SpaceRepo) Delete(_ context.Context, id string) error {
	return r.store.with(r.tx, func(st *state) error {
		delete(st.spaces, id)
		for pid, pr := range st.products {
			if pr.p.SpaceID == id {
				delete(st.products, pid)
			}
		}
		return nil
	})
}

func nameTaken(st *state, ownerID, name, exceptID string) bool {
	for id, row := range st.spaces {
		if id != exceptID && row.s.OwnerID == ownerID && row.s.Name == name {
			return true
		}
	}
	return false
}
