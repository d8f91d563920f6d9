// Package analytics contiene las proyecciones de solo lectura del dashboard:
// resumen, estadísticas, alertas, actividad, métricas por espacio y reporte PDF.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

const (
	recentActivityWindow = 168 * time.Hour
	defaultTopProducts   = 10
	maxTopProducts       = 50
)

// Criterios de orden de TopProducts.
const (
	SortByValue = "value"
	SortByPrice = "price"
	SortByStock = "stock"
)

// DashboardUseCase proyecciones calculadas en el momento sobre los datos del usuario.
// No persiste nada y nunca divide por cero: sin datos devuelve HasData=false.
type DashboardUseCase struct {
	spaces   repository.SpaceRepository
	products repository.ProductRepository
	audit    repository.AuditRepository
	clock    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	spaces repository.SpaceRepository,
	products repository.ProductRepository,
	auditRepo repository.AuditRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		spaces:   spaces,
		products: products,
		audit:    auditRepo,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(clock func() time.Time) *DashboardUseCase {
	c := *uc
	c.clock = clock
	return &c
}

type snapshot struct {
	spaces   []*entity.SpaceWithCount
	products []*entity.Product
}

// load lee espacios y productos del usuario en paralelo.
func (uc *DashboardUseCase) load(ctx context.Context, ownerID string) (*snapshot, error) {
	type spacesResult struct {
		list []*entity.SpaceWithCount
		err  error
	}
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	spacesCh := make(chan spacesResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		list, err := uc.spaces.ListByOwner(ctx, ownerID)
		spacesCh <- spacesResult{list, err}
	}()
	go func() {
		list, err := uc.products.ListByOwner(ctx, ownerID)
		productsCh <- productsResult{list, err}
	}()

	spaces := <-spacesCh
	products := <-productsCh
	if spaces.err != nil {
		return nil, fmt.Errorf("dashboard: espacios: %w", spaces.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	return &snapshot{spaces: spaces.list, products: products.list}, nil
}

// Overview resumen general del inventario del usuario.
func (uc *DashboardUseCase) Overview(ctx context.Context, ownerID string) (*dto.DashboardOverviewDTO, error) {
	snap, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := overviewOf(snap)
	return &out, nil
}

func overviewOf(snap *snapshot) dto.DashboardOverviewDTO {
	totalSpaces := len(snap.spaces)
	totalProducts := len(snap.products)

	var status dto.StockStatusBreakdown
	lowStock := 0
	value := decimal.Zero
	for _, p := range snap.products {
		value = value.Add(p.Value())
		if inventory.ProductIsLowStock(p) {
			lowStock++
		}
		switch inventory.Status(p) {
		case inventory.StatusOutOfStock:
			status.OutOfStock++
		case inventory.StatusLowStock:
			status.LowStock++
		default:
			status.InStock++
		}
	}

	avg := 0.0
	if totalSpaces > 0 {
		avg = inventory.Round2(float64(totalProducts) / float64(totalSpaces))
	}
	return dto.DashboardOverviewDTO{
		TotalSpaces:             totalSpaces,
		MaxSpaces:               entity.MaxSpacesPerOwner,
		SpaceUtilization:        inventory.Round2(float64(totalSpaces) / float64(entity.MaxSpacesPerOwner) * 100),
		TotalProducts:           totalProducts,
		TotalValue:              value.Round(2),
		LowStockCount:           lowStock,
		StockStatus:             status,
		AverageProductsPerSpace: avg,
		HasData:                 totalSpaces > 0 || totalProducts > 0,
	}
}

// Insights estadísticas de precio y stock, y valor y cantidad por espacio.
func (uc *DashboardUseCase) Insights(ctx context.Context, ownerID string) (*dto.InsightsDTO, error) {
	snap, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := &dto.InsightsDTO{
		ValueBySpace:        make(map[string]decimal.Decimal, len(snap.spaces)),
		ProductCountBySpace: make(map[string]int, len(snap.spaces)),
	}
	for _, s := range snap.spaces {
		out.ValueBySpace[s.Name] = decimal.Zero
		out.ProductCountBySpace[s.Name] = 0
	}
	if len(snap.products) == 0 {
		return out, nil
	}

	out.HasData = true
	first := snap.products[0]
	price := dto.MinMaxAvg{Min: first.Price.InexactFloat64(), Max: first.Price.InexactFloat64()}
	stock := dto.StockStats{MinMaxAvg: dto.MinMaxAvg{Min: float64(first.CurrentStock), Max: float64(first.CurrentStock)}}
	priceSum := decimal.Zero
	for _, p := range snap.products {
		pf := p.Price.InexactFloat64()
		price.Min = min(price.Min, pf)
		price.Max = max(price.Max, pf)
		priceSum = priceSum.Add(p.Price)

		sf := float64(p.CurrentStock)
		stock.Min = min(stock.Min, sf)
		stock.Max = max(stock.Max, sf)
		stock.Total += p.CurrentStock

		out.ValueBySpace[p.SpaceName] = out.ValueBySpace[p.SpaceName].Add(p.Value())
		out.ProductCountBySpace[p.SpaceName]++
	}
	for name, v := range out.ValueBySpace {
		out.ValueBySpace[name] = v.Round(2)
	}
	n := len(snap.products)
	price.Average = inventory.Round2(priceSum.InexactFloat64() / float64(n))
	stock.Average = inventory.Round2(float64(stock.Total) / float64(n))
	out.PriceStats = &price
	out.StockStats = &stock
	return out, nil
}

// LowStockAlerts alertas agrupadas por espacio con su severidad.
func (uc *DashboardUseCase) LowStockAlerts(ctx context.Context, ownerID string) (*dto.LowStockAlertsDTO, error) {
	low, err := uc.products.ListLowStock(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	out := &dto.LowStockAlertsDTO{
		AlertsBySpace: make(map[string][]dto.LowStockAlertDTO),
		SeverityBreakdown: map[string]int{
			inventory.SeverityCritical: 0,
			inventory.SeverityHigh:     0,
			inventory.SeverityMedium:   0,
			inventory.SeverityLow:      0,
		},
	}
	for _, p := range low {
		if p.MinimumQuantity == nil {
			continue
		}
		severity := inventory.Severity(p)
		out.AlertsBySpace[p.SpaceName] = append(out.AlertsBySpace[p.SpaceName], dto.LowStockAlertDTO{
			ProductID:       p.ID,
			ProductName:     p.Name,
			SpaceID:         p.SpaceID,
			SpaceName:       p.SpaceName,
			CurrentStock:    p.CurrentStock,
			MinimumQuantity: *p.MinimumQuantity,
			StockDifference: *p.MinimumQuantity - p.CurrentStock,
			Severity:        severity,
		})
		out.SeverityBreakdown[severity]++
		out.TotalAlerts++
	}
	out.HasAlerts = out.TotalAlerts > 0
	return out, nil
}

// RecentActivity actividad de los últimos 7 días con una descripción legible.
func (uc *DashboardUseCase) RecentActivity(ctx context.Context, ownerID string) (*dto.RecentActivityDTO, error) {
	entries, err := uc.audit.ListSince(ctx, ownerID, uc.clock().Add(-recentActivityWindow), 0)
	if err != nil {
		return nil, err
	}
	activities := make([]dto.ActivityDTO, 0, len(entries))
	for _, e := range entries {
		details := audit.ParseDetails(e.Details)
		activities = append(activities, dto.ActivityDTO{
			ID:          e.ID,
			Type:        strings.ToLower(e.Operation),
			EntityType:  strings.ToLower(e.EntityType),
			EntityID:    e.EntityID,
			Timestamp:   e.Timestamp,
			IPAddress:   e.IPAddress,
			Details:     details,
			Description: describe(e, details),
		})
	}
	return &dto.RecentActivityDTO{
		Activities:  activities,
		TotalCount:  len(activities),
		HasActivity: len(activities) > 0,
	}, nil
}

// SpaceMetrics métricas por espacio ordenadas por valor descendente.
func (uc *DashboardUseCase) SpaceMetrics(ctx context.Context, ownerID string) (*dto.SpaceMetricsDTO, error) {
	snap, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	bySpace := make(map[string][]*entity.Product, len(snap.spaces))
	for _, p := range snap.products {
		bySpace[p.SpaceID] = append(bySpace[p.SpaceID], p)
	}

	metrics := make([]dto.SpaceMetricDTO, 0, len(snap.spaces))
	total := decimal.Zero
	for _, s := range snap.spaces {
		products := bySpace[s.ID]
		value := decimal.Zero
		low := 0
		for _, p := range products {
			value = value.Add(p.Value())
			if inventory.ProductIsLowStock(p) {
				low++
			}
		}
		total = total.Add(value)
		metrics = append(metrics, dto.SpaceMetricDTO{
			SpaceID:       s.ID,
			SpaceName:     s.Name,
			ProductCount:  len(products),
			TotalValue:    value.Round(2),
			LowStockCount: low,
			HealthScore:   inventory.HealthScore(products),
		})
	}
	sort.SliceStable(metrics, func(i, j int) bool {
		if !metrics[i].TotalValue.Equal(metrics[j].TotalValue) {
			return metrics[i].TotalValue.GreaterThan(metrics[j].TotalValue)
		}
		return metrics[i].SpaceName < metrics[j].SpaceName
	})

	avg := decimal.Zero
	if n := len(snap.spaces); n > 0 {
		avg = total.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	return &dto.SpaceMetricsDTO{
		Spaces: metrics,
		Summary: dto.SpaceMetricsSummary{
			TotalSpaces:          len(snap.spaces),
			TotalValue:           total.Round(2),
			TotalProducts:        len(snap.products),
			AverageValuePerSpace: avg,
		},
		HasData: len(snap.spaces) > 0,
	}, nil
}

// TopProducts ranking por valor, precio o stock. limit fuera de 1..50 se ajusta.
func (uc *DashboardUseCase) TopProducts(ctx context.Context, ownerID string, limit int, sortBy string) (*dto.TopProductsDTO, error) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	if sortBy == "" {
		sortBy = SortByValue
	}
	var less func(a, b *entity.Product) bool
	switch sortBy {
	case SortByValue:
		less = func(a, b *entity.Product) bool { return a.Value().GreaterThan(b.Value()) }
	case SortByPrice:
		less = func(a, b *entity.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortByStock:
		less = func(a, b *entity.Product) bool { return a.CurrentStock > b.CurrentStock }
	default:
		return nil, domain.NewValidationError("sortBy", "debe ser value, price o stock")
	}
	switch {
	case limit <= 0:
		limit = defaultTopProducts
	case limit > maxTopProducts:
		limit = maxTopProducts
	}

	products, err := uc.products.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
	if len(products) > limit {
		products = products[:limit]
	}

	top := make([]dto.TopProductDTO, 0, len(products))
	for _, p := range products {
		top = append(top, dto.TopProductDTO{
			ProductID:    p.ID,
			Name:         p.Name,
			SpaceName:    p.SpaceName,
			Price:        p.Price,
			CurrentStock: p.CurrentStock,
			Value:        p.Value().Round(2),
		})
	}
	return &dto.TopProductsDTO{TopProducts: top, SortedBy: sortBy, Limit: limit, HasData: len(top) > 0}, nil
}

// Trends foto actual del inventario más la actividad de los últimos days días.
func (uc *DashboardUseCase) Trends(ctx context.Context, ownerID string, days int) (*dto.TrendsDTO, error) {
	days = audit.ClampDays(days)
	now := uc.clock()

	snap, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.audit.ListSince(ctx, ownerID, audit.WindowStart(now, days), 0)
	if err != nil {
		return nil, err
	}

	movement := map[string]int{
		entity.AuditOpStockAdd:    0,
		entity.AuditOpStockRemove: 0,
		entity.AuditOpStockUpdate: 0,
	}
	for _, e := range entries {
		if _, ok := movement[e.Operation]; ok {
			movement[e.Operation]++
		}
	}
	current := overviewOf(snap)
	activity := audit.BuildTrends(entries, days, now)
	return &dto.TrendsDTO{
		Period:        activity.Period,
		Current:       current,
		Activity:      activity,
		StockMovement: movement,
		HasData:       current.HasData || activity.TotalActivities > 0,
	}, nil
}

// describe texto legible de una entrada a partir de su operación y detalle.
func describe(e *entity.AuditEntry, details any) string {
	d, _ := details.(map[string]any)
	str := func(k string) string {
		if v, ok := d[k]; ok {
			return fmt.Sprint(v)
		}
		return ""
	}
	switch e.EntityType + "/" + e.Operation {
	case entity.AuditEntitySpace + "/" + entity.AuditOpCreate:
		return fmt.Sprintf("Created space %q", str("spaceName"))
	case entity.AuditEntitySpace + "/" + entity.AuditOpUpdate:
		return fmt.Sprintf("Renamed space %q to %q", str("oldName"), str("newName"))
	case entity.AuditEntitySpace + "/" + entity.AuditOpDelete:
		return fmt.Sprintf("Deleted space %q", str("spaceName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpCreate:
		return fmt.Sprintf("Created product %q in %q", str("productName"), str("spaceName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpUpdate:
		return fmt.Sprintf("Updated product %q", str("productName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpDelete:
		return fmt.Sprintf("Deleted product %q", str("productName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpStockAdd:
		return fmt.Sprintf("Added %s units to %q", str("quantityAdded"), str("productName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpStockRemove:
		return fmt.Sprintf("Removed %s units from %q", str("quantityRemoved"), str("productName"))
	case entity.AuditEntityProduct + "/" + entity.AuditOpStockUpdate:
		return fmt.Sprintf("Set stock of %q to %s", str("productName"), str("newStock"))
	case entity.AuditEntityUser + "/" + entity.AuditOpUpdate:
		if a := str("action"); a != "" {
			return a
		}
	}
	return strings.ToLower(e.Operation) + " " + strings.ToLower(e.EntityType)
}
