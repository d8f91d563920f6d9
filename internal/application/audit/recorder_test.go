package audit_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

type failingSink struct {
	repository.AuditRepository
	calls int
}

func (s *failingSink) Append(context.Context, *entity.AuditEntry) error {
	s.calls++
	return errors.New("disk full")
}

type failureCounter struct{ failed []string }

func (m *failureCounter) AuditFailed(op string)  { m.failed = append(m.failed, op) }
func (m *failureCounter) StockMoved(string, int) {}

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func entries(t *testing.T, store *memory.Store, userID string) []*entity.AuditEntry {
	t.Helper()
	list, _, err := store.Audit().List(context.Background(), entity.AuditFilter{UserID: userID})
	require.NoError(t, err)
	return list
}

func TestRecorder_Record(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(logger.NewNop(), nil).WithClock(func() time.Time { return fixedNow })

	rec.Record(context.Background(), store.Audit(), audit.Event{
		UserID:            "u1",
		EntityType:        entity.AuditEntityProduct,
		EntityID:          "p1",
		Operation:         entity.AuditOpStockAdd,
		Details:           map[string]any{"oldStock": 1, "newStock": 3},
		RelatedEntityID:   "s1",
		RelatedEntityType: entity.AuditEntitySpace,
		Meta:              dto.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl/8"},
	})

	list := entries(t, store, "u1")
	require.Len(t, list, 1)
	e := list[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, fixedNow, e.Timestamp)
	assert.JSONEq(t, `{"oldStock":1,"newStock":3}`, e.Details)
	assert.Equal(t, "10.0.0.1", e.IPAddress)
	assert.Equal(t, "curl/8", e.UserAgent)
	assert.Equal(t, "s1", e.RelatedEntityID)
}

func TestRecorder_DetallesNoSerializables(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(logger.NewNop(), nil)

	rec.Record(context.Background(), store.Audit(), audit.Event{
		UserID:     "u1",
		EntityType: entity.AuditEntityProduct,
		EntityID:   "p1",
		Operation:  entity.AuditOpUpdate,
		Details:    map[string]any{"newPrice": math.Inf(1)},
	})

	list := entries(t, store, "u1")
	require.Len(t, list, 1)
	assert.Equal(t, audit.DetailsSerializationError, list[0].Details)
	assert.Equal(t, audit.DetailsSerializationError, audit.ParseDetails(list[0].Details))
}

func TestRecorder_TruncaOrigen(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(logger.NewNop(), nil)

	rec.Record(context.Background(), store.Audit(), audit.Event{
		UserID:     "u1",
		EntityType: entity.AuditEntitySpace,
		EntityID:   "s1",
		Operation:  entity.AuditOpCreate,
		Meta: dto.RequestMeta{
			IPAddress: strings.Repeat("1", 300),
			UserAgent: strings.Repeat("ñ", 600),
		},
	})

	e := entries(t, store, "u1")[0]
	assert.Len(t, e.IPAddress, 255)
	assert.Equal(t, 500, len([]rune(e.UserAgent)))
	assert.Empty(t, e.Details)
}

func TestRecorder_FalloDelSinkNoSePropaga(t *testing.T) {
	sink := &failingSink{}
	metrics := &failureCounter{}
	rec := audit.NewRecorder(logger.NewNop(), metrics)

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), sink, audit.Event{UserID: "u1", Operation: entity.AuditOpDelete})
	})
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, []string{entity.AuditOpDelete}, metrics.failed)
}

func TestRecorder_FalloDelSinkNoRevierteLaTransaccion(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(logger.NewNop(), nil)
	ctx := context.Background()

	err := store.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "a@b.co", CreatedAt: fixedNow, UpdatedAt: fixedNow}); err != nil {
			return err
		}
		rec.Record(ctx, &failingSink{}, audit.Event{UserID: "u1", Operation: entity.AuditOpCreate})
		return nil
	})
	require.NoError(t, err)

	u, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestParseDetails(t *testing.T) {
	assert.Nil(t, audit.ParseDetails(""))
	assert.Equal(t, "texto libre", audit.ParseDetails("texto libre"))
	assert.Equal(t, map[string]any{"a": float64(1)}, audit.ParseDetails(`{"a":1}`))
}
