package memory

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

type OTPRepo struct {
	store *Store
}

func (r *OTPRepo) Create(_ context.Context, code *entity.OneTimeCode) error {
	return r.store.with(nil, func(st *state) error {
		st.otps = append(st.otps, *code)
		return nil
	})
}

func (r *OTPRepo) LatestByEmail(_ context.Context, email string) (*entity.OneTimeCode, error) {
	var out *entity.OneTimeCode
	err := r.store.with(nil, func(st *state) error {
		for i := range st.otps {
			c := st.otps[i]
			if c.Email != email {
				continue
			}
			if out == nil || !c.ExpiresAt.Before(out.ExpiresAt) {
				out = &c
			}
		}
		return nil
	})
	return out, err
}
