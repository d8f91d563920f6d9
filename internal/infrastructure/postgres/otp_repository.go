package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

// OTPRepo códigos de verificación de email.
type OTPRepo struct {
	q Querier
}

func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

// Create persiste un código emitido.
func (r *OTPRepo) Create(ctx context.Context, code *entity.OneTimeCode) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO one_time_codes (id, email, code, expires_at) VALUES ($1, $2, $3, $4)`,
		code.ID, code.Email, code.Code, code.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert one-time code: %w", err)
	}
	return nil
}

// LatestByEmail el código más reciente (por expiración) del email.
func (r *OTPRepo) LatestByEmail(ctx context.Context, email string) (*entity.OneTimeCode, error) {
	var c entity.OneTimeCode
	err := r.q.QueryRow(ctx,
		`SELECT id, email, code, expires_at FROM one_time_codes WHERE email = $1 ORDER BY expires_at DESC LIMIT 1`,
		email,
	).Scan(&c.ID, &c.Email, &c.Code, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get one-time code: %w", err)
	}
	return &c, nil
}
