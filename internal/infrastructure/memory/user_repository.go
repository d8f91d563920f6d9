package memory

import (
	"context"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	store *Store
	tx    *state
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.store.with(r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// LockByID equivale a GetByID: la transacción en memoria ya es exclusiva.
func (r *UserRepo) LockByID(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) MarkVerified(_ context.Context, id string) error {
	return r.store.with(r.tx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.Verified = true
		u.UpdatedAt = time.Now().UTC()
		st.users[id] = u
		return nil
	})
}
