package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) (*entity.Space, *entity.Product) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@b.c", CreatedAt: now}))
	space := &entity.Space{ID: "s1", OwnerID: "u1", Name: "Garage", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Spaces().Create(ctx, space))
	p := &entity.Product{ID: "p1", SpaceID: "s1", Name: "Blue Widget", Price: decimal.NewFromInt(2), CurrentStock: 5, CreatedAt: now}
	require.NoError(t, s.Products().Create(ctx, p))
	return space, p
}

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if _, err := repos.Products.IncrementStock(ctx, "p1", 10); err != nil {
			return err
		}
		require.NoError(t, repos.Audit.Append(ctx, &entity.AuditEntry{ID: "a1", UserID: "u1"}))
		return errors.New("falla posterior")
	})
	require.Error(t, err)

	p, err := s.Products().GetInSpace(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.CurrentStock)

	_, total, err := s.Audit().List(ctx, entity.AuditFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_RunPublicaCambios(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		_, err := repos.Products.DecrementStock(ctx, "p1", 5)
		return err
	})
	require.NoError(t, err)

	p, err := s.Products().GetInSpace(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)
	assert.Equal(t, "Garage", p.SpaceName)
}

func TestStore_DecrementStockInsuficiente(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	_, err := s.Products().DecrementStock(context.Background(), "p1", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStore_NombreDuplicadoYCascada(t *testing.T) {
	s := memory.NewStore()
	space, _ := seed(t, s)
	ctx := context.Background()

	err := s.Spaces().Create(ctx, &entity.Space{ID: "s2", OwnerID: "u1", Name: "Garage"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// El mismo nombre con otro dueño es válido.
	require.NoError(t, s.Spaces().Create(ctx, &entity.Space{ID: "s3", OwnerID: "u2", Name: "Garage"}))

	require.NoError(t, s.Spaces().Delete(ctx, space.ID))
	n, err := s.Products().CountBySpace(ctx, space.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_SearchSinDistinguirMayusculas(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	list, err := s.Products().Search(ctx, "u1", "", "WIDGET")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)

	list, err = s.Products().Search(ctx, "u2", "", "widget")
	require.NoError(t, err)
	assert.Empty(t, list, "otro dueño no ve productos ajenos")
}

func TestStore_LecturasDevuelvenCopias(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	p, err := s.Products().GetInSpace(ctx, "s1", "p1")
	require.NoError(t, err)
	p.CurrentStock = 999

	again, err := s.Products().GetInSpace(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.CurrentStock)
}
