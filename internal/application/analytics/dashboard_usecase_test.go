package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/analytics"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
)

var now = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type seeded struct {
	store   *memory.Store
	uc      *analytics.DashboardUseCase
	owner   string
	garage  string
	pantry  string
	drillID string
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(v int) *int { return &v }

// seedInventory dos espacios y cuatro productos:
//
//	Garage: Drill 50.00 x 2 (min 5), Saw 20.00 x 0 (min 3)
//	Pantry: Rice 2.50 x 44, Beans 1.25 x 8 (min 10)
func seedInventory(t *testing.T) *seeded {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	s := &seeded{
		store: store,
		uc:    analytics.NewDashboardUseCase(store.Spaces(), store.Products(), store.Audit()).WithClock(func() time.Time { return now }),
		owner: uuid.New().String(),
	}
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: s.owner, Name: "Ana", Email: "ana@example.com", Verified: true, CreatedAt: now, UpdatedAt: now}))

	space := func(name string, age time.Duration) string {
		id := uuid.New().String()
		require.NoError(t, store.Spaces().Create(ctx, &entity.Space{ID: id, OwnerID: s.owner, Name: name, CreatedAt: now.Add(-age), UpdatedAt: now}))
		return id
	}
	product := func(spaceID, name, price string, stock int, minimum *int) string {
		id := uuid.New().String()
		require.NoError(t, store.Products().Create(ctx, &entity.Product{
			ID: id, SpaceID: spaceID, Name: name, Price: dec(price), CurrentStock: stock,
			MinimumQuantity: minimum, CreatedAt: now, UpdatedAt: now,
		}))
		return id
	}
	s.garage = space("Garage", 2*time.Hour)
	s.pantry = space("Pantry", time.Hour)
	s.drillID = product(s.garage, "Drill", "50.00", 2, ptr(5))
	product(s.garage, "Saw", "20.00", 0, ptr(3))
	product(s.pantry, "Rice", "2.50", 44, nil)
	product(s.pantry, "Beans", "1.25", 8, ptr(10))
	return s
}

func (s *seeded) audit(t *testing.T, entityType, op, details string, at time.Time) {
	t.Helper()
	require.NoError(t, s.store.Audit().Append(context.Background(), &entity.AuditEntry{
		ID: uuid.New().String(), UserID: s.owner, EntityType: entityType, EntityID: uuid.New().String(),
		Operation: op, Details: details, Timestamp: at, IPAddress: "10.0.0.1",
	}))
}

func TestDashboard_SinDatos(t *testing.T) {
	store := memory.NewStore()
	uc := analytics.NewDashboardUseCase(store.Spaces(), store.Products(), store.Audit()).WithClock(func() time.Time { return now })
	ctx := context.Background()
	owner := uuid.New().String()

	o, err := uc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.False(t, o.HasData)
	assert.Zero(t, o.AverageProductsPerSpace)
	assert.True(t, o.TotalValue.IsZero())
	assert.Equal(t, 10, o.MaxSpaces)

	in, err := uc.Insights(ctx, owner)
	require.NoError(t, err)
	assert.False(t, in.HasData)
	assert.Nil(t, in.PriceStats)
	assert.Nil(t, in.StockStats)

	alerts, err := uc.LowStockAlerts(ctx, owner)
	require.NoError(t, err)
	assert.False(t, alerts.HasAlerts)
	assert.Equal(t, 0, alerts.SeverityBreakdown["critical"])

	act, err := uc.RecentActivity(ctx, owner)
	require.NoError(t, err)
	assert.False(t, act.HasActivity)
	assert.NotNil(t, act.Activities)

	m, err := uc.SpaceMetrics(ctx, owner)
	require.NoError(t, err)
	assert.False(t, m.HasData)
	assert.True(t, m.Summary.AverageValuePerSpace.IsZero())

	top, err := uc.TopProducts(ctx, owner, 0, "")
	require.NoError(t, err)
	assert.False(t, top.HasData)

	tr, err := uc.Trends(ctx, owner, 0)
	require.NoError(t, err)
	assert.False(t, tr.HasData)
	assert.Len(t, tr.Activity.DailyActivity, 7)
}

func TestDashboard_Overview(t *testing.T) {
	s := seedInventory(t)

	o, err := s.uc.Overview(context.Background(), s.owner)
	require.NoError(t, err)
	assert.True(t, o.HasData)
	assert.Equal(t, 2, o.TotalSpaces)
	assert.Equal(t, 20.0, o.SpaceUtilization)
	assert.Equal(t, 4, o.TotalProducts)
	assert.True(t, dec("220").Equal(o.TotalValue), o.TotalValue.String())
	assert.Equal(t, 3, o.LowStockCount)
	assert.Equal(t, 2.0, o.AverageProductsPerSpace)
	assert.Equal(t, 1, o.StockStatus.InStock)
	assert.Equal(t, 2, o.StockStatus.LowStock)
	assert.Equal(t, 1, o.StockStatus.OutOfStock)
}

func TestDashboard_Insights(t *testing.T) {
	s := seedInventory(t)

	in, err := s.uc.Insights(context.Background(), s.owner)
	require.NoError(t, err)
	require.True(t, in.HasData)
	assert.Equal(t, 1.25, in.PriceStats.Min)
	assert.Equal(t, 50.0, in.PriceStats.Max)
	assert.Equal(t, 18.44, in.PriceStats.Average)
	assert.Equal(t, 0.0, in.StockStats.Min)
	assert.Equal(t, 44.0, in.StockStats.Max)
	assert.Equal(t, 13.5, in.StockStats.Average)
	assert.Equal(t, 54, in.StockStats.Total)
	assert.True(t, dec("100").Equal(in.ValueBySpace["Garage"]))
	assert.True(t, dec("120").Equal(in.ValueBySpace["Pantry"]))
	assert.Equal(t, map[string]int{"Garage": 2, "Pantry": 2}, in.ProductCountBySpace)
}

func TestDashboard_LowStockAlerts(t *testing.T) {
	s := seedInventory(t)

	a, err := s.uc.LowStockAlerts(context.Background(), s.owner)
	require.NoError(t, err)
	assert.True(t, a.HasAlerts)
	assert.Equal(t, 3, a.TotalAlerts)
	assert.Equal(t, map[string]int{"critical": 1, "high": 1, "medium": 1, "low": 0}, a.SeverityBreakdown)
	require.Len(t, a.AlertsBySpace["Garage"], 2)
	require.Len(t, a.AlertsBySpace["Pantry"], 1)

	saw := a.AlertsBySpace["Garage"][0]
	assert.Equal(t, "Saw", saw.ProductName)
	assert.Equal(t, "critical", saw.Severity)
	drill := a.AlertsBySpace["Garage"][1]
	assert.Equal(t, s.drillID, drill.ProductID)
	assert.Equal(t, 3, drill.StockDifference)
	assert.Equal(t, "high", drill.Severity)
	assert.Equal(t, "medium", a.AlertsBySpace["Pantry"][0].Severity)
}

func TestDashboard_SpaceMetrics(t *testing.T) {
	s := seedInventory(t)

	m, err := s.uc.SpaceMetrics(context.Background(), s.owner)
	require.NoError(t, err)
	require.Len(t, m.Spaces, 2)
	assert.Equal(t, "Pantry", m.Spaces[0].SpaceName)
	assert.Equal(t, 85.0, m.Spaces[0].HealthScore)
	assert.Equal(t, 1, m.Spaces[0].LowStockCount)
	assert.Equal(t, "Garage", m.Spaces[1].SpaceName)
	assert.Equal(t, 45.0, m.Spaces[1].HealthScore)
	assert.True(t, dec("220").Equal(m.Summary.TotalValue))
	assert.True(t, dec("110").Equal(m.Summary.AverageValuePerSpace))
	assert.Equal(t, 4, m.Summary.TotalProducts)
}

func TestDashboard_TopProducts(t *testing.T) {
	s := seedInventory(t)
	ctx := context.Background()
	names := func(sortBy string, limit int) []string {
		top, err := s.uc.TopProducts(ctx, s.owner, limit, sortBy)
		require.NoError(t, err)
		out := make([]string, 0, len(top.TopProducts))
		for _, p := range top.TopProducts {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Rice", "Drill", "Beans", "Saw"}, names("", 0))
	assert.Equal(t, []string{"Drill", "Saw"}, names("PRICE", 2))
	assert.Equal(t, []string{"Rice", "Beans", "Drill", "Saw"}, names("stock", 10))

	top, err := s.uc.TopProducts(ctx, s.owner, 999, "value")
	require.NoError(t, err)
	assert.Equal(t, 50, top.Limit)
	assert.Equal(t, "value", top.SortedBy)

	_, err = s.uc.TopProducts(ctx, s.owner, 5, "popularity")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard_RecentActivity(t *testing.T) {
	s := seedInventory(t)
	s.audit(t, entity.AuditEntitySpace, entity.AuditOpCreate, `{"spaceName":"Garage","action":"Space created"}`, now.Add(-48*time.Hour))
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockAdd, `{"productName":"Drill","quantityAdded":5}`, now.Add(-time.Hour))
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockRemove, `{"productName":"Drill","quantityRemoved":1}`, now.Add(-8*24*time.Hour))

	a, err := s.uc.RecentActivity(context.Background(), s.owner)
	require.NoError(t, err)
	require.Equal(t, 2, a.TotalCount)
	assert.True(t, a.HasActivity)
	assert.Equal(t, "stock_add", a.Activities[0].Type)
	assert.Equal(t, "product", a.Activities[0].EntityType)
	assert.Equal(t, `Added 5 units to "Drill"`, a.Activities[0].Description)
	assert.Equal(t, `Created space "Garage"`, a.Activities[1].Description)
}

func TestDashboard_Trends(t *testing.T) {
	s := seedInventory(t)
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockAdd, `{}`, now.Add(-time.Hour))
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockRemove, `{}`, now.Add(-25*time.Hour))
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockRemove, `{}`, now.Add(-26*time.Hour))
	s.audit(t, entity.AuditEntitySpace, entity.AuditOpCreate, `{}`, now.Add(-2*time.Hour))
	s.audit(t, entity.AuditEntityProduct, entity.AuditOpStockAdd, `{}`, now.AddDate(0, 0, -20))

	tr, err := s.uc.Trends(context.Background(), s.owner, 3)
	require.NoError(t, err)
	assert.True(t, tr.HasData)
	assert.Equal(t, "3 days", tr.Period)
	assert.Equal(t, map[string]int{"STOCK_ADD": 1, "STOCK_REMOVE": 2, "STOCK_UPDATE": 0}, tr.StockMovement)
	assert.Equal(t, 4, tr.Activity.TotalActivities)
	assert.Equal(t, map[string]int{"2026-03-12": 0, "2026-03-13": 2, "2026-03-14": 2}, tr.Activity.DailyActivity)
	assert.Equal(t, 4, tr.Current.TotalProducts)
}
