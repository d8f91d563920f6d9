package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

var meta = dto.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "test-agent"}

type fixture struct {
	store    *memory.Store
	spaces   *usecase.SpaceUseCase
	products *usecase.ProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	guard := access.NewGuard(store.Spaces(), store.Products())
	rec := audit.NewRecorder(logger.NewNop(), nil)
	return &fixture{
		store:    store,
		spaces:   usecase.NewSpaceUseCase(store.Spaces(), store.Products(), store, guard, rec),
		products: usecase.NewProductUseCase(store.Products(), store, guard, rec),
	}
}

func (f *fixture) user(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	require.NoError(t, f.store.Users().Create(context.Background(), &entity.User{
		ID: id, Name: "Ana", Email: id + "@example.com", Verified: true, CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func (f *fixture) auditEntries(t *testing.T, userID string) []*entity.AuditEntry {
	t.Helper()
	list, _, err := f.store.Audit().List(context.Background(), entity.AuditFilter{UserID: userID})
	require.NoError(t, err)
	return list
}

func TestSpaceUseCase_CuotaDeDiez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)

	for i := 0; i < entity.MaxSpacesPerOwner; i++ {
		_, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: fmt.Sprintf("Space %d", i)}, meta)
		require.NoError(t, err)
	}
	_, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "Eleventh"}, meta)
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	var qe *domain.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 10, qe.Max)

	quota, err := f.spaces.Quota(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, dto.SpaceQuotaResponse{Used: 10, Max: 10, Remaining: 0, CanCreate: false}, *quota)

	// La cuota es por usuario.
	_, err = f.spaces.Create(ctx, f.user(t), dto.CreateSpaceRequest{Name: "Eleventh"}, meta)
	assert.NoError(t, err)
}

func TestSpaceUseCase_NombreDuplicadoTrasRecorte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)

	created, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "  Garage "}, meta)
	require.NoError(t, err)
	assert.Equal(t, "Garage", created.Name)

	_, err = f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "Garage"}, meta)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// Distingue mayúsculas.
	_, err = f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "garage"}, meta)
	assert.NoError(t, err)
}

func TestSpaceUseCase_NombreInvalido(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t)
	long := make([]rune, entity.MaxNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	for _, name := range []string{"", "   ", string(long)} {
		_, err := f.spaces.Create(context.Background(), owner, dto.CreateSpaceRequest{Name: name}, meta)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, f.auditEntries(t, owner))
}

func TestSpaceUseCase_CreateAudita(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t)
	created, err := f.spaces.Create(context.Background(), owner, dto.CreateSpaceRequest{Name: "Attic"}, meta)
	require.NoError(t, err)

	entries := f.auditEntries(t, owner)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, entity.AuditEntitySpace, e.EntityType)
	assert.Equal(t, entity.AuditOpCreate, e.Operation)
	assert.Equal(t, created.ID, e.EntityID)
	assert.JSONEq(t, `{"spaceName":"Attic","action":"Space created"}`, e.Details)
	assert.Equal(t, "203.0.113.7", e.IPAddress)
	assert.Equal(t, "test-agent", e.UserAgent)
}

func TestSpaceUseCase_RenameMismoNombreNoAudita(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)
	s, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "Garage"}, meta)
	require.NoError(t, err)

	got, err := f.spaces.Rename(ctx, owner, s.ID, dto.UpdateSpaceRequest{Name: " Garage  "}, meta)
	require.NoError(t, err)
	assert.Equal(t, "Garage", got.Name)
	assert.Len(t, f.auditEntries(t, owner), 1, "solo el CREATE")

	got, err = f.spaces.Rename(ctx, owner, s.ID, dto.UpdateSpaceRequest{Name: "Workshop"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "Workshop", got.Name)

	entries := f.auditEntries(t, owner)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditOpUpdate, entries[0].Operation)
	assert.JSONEq(t, `{"oldName":"Garage","newName":"Workshop","action":"Space name updated"}`, entries[0].Details)
}

func TestSpaceUseCase_RenameADuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)
	_, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "A"}, meta)
	require.NoError(t, err)
	b, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "B"}, meta)
	require.NoError(t, err)

	_, err = f.spaces.Rename(ctx, owner, b.ID, dto.UpdateSpaceRequest{Name: "A"}, meta)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestSpaceUseCase_DeleteConProductosFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)
	s, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "Pantry"}, meta)
	require.NoError(t, err)
	_, err = f.products.Create(ctx, owner, s.ID, newProduct("Rice", "2.50", 4, nil), meta)
	require.NoError(t, err)

	err = f.spaces.Delete(ctx, owner, s.ID, meta)
	require.ErrorIs(t, err, domain.ErrSpaceNotEmpty)
	var ne *domain.SpaceNotEmptyError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 1, ne.Products)

	got, err := f.spaces.Get(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ProductCount)
	for _, e := range f.auditEntries(t, owner) {
		assert.NotEqual(t, entity.AuditOpDelete, e.Operation)
	}
}

func TestSpaceUseCase_DeleteVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)
	s, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: "Empty"}, meta)
	require.NoError(t, err)

	require.NoError(t, f.spaces.Delete(ctx, owner, s.ID, meta))
	_, err = f.spaces.Get(ctx, owner, s.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	entries := f.auditEntries(t, owner)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditOpDelete, entries[0].Operation)
	assert.JSONEq(t, `{"spaceName":"Empty","action":"Space deleted"}`, entries[0].Details)
}

func TestSpaceUseCase_AislamientoEntreUsuarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t), f.user(t)
	s, err := f.spaces.Create(ctx, alice, dto.CreateSpaceRequest{Name: "Private"}, meta)
	require.NoError(t, err)

	_, err = f.spaces.Get(ctx, bob, s.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = f.spaces.Get(ctx, bob, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrAccessDenied, "inexistente y ajeno son indistinguibles")
	_, err = f.spaces.Get(ctx, bob, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = f.spaces.Rename(ctx, bob, s.ID, dto.UpdateSpaceRequest{Name: "Mine"}, meta)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.ErrorIs(t, f.spaces.Delete(ctx, bob, s.ID, meta), domain.ErrAccessDenied)

	list, err := f.spaces.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Empty(t, f.auditEntries(t, bob))
}

func TestSpaceUseCase_ListMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t)
	for _, name := range []string{"First", "Second", "Third"} {
		_, err := f.spaces.Create(ctx, owner, dto.CreateSpaceRequest{Name: name}, meta)
		require.NoError(t, err)
	}
	list, err := f.spaces.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "Third", list.Items[0].Name)
	assert.Equal(t, "First", list.Items[2].Name)
}
