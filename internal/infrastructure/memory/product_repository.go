package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

type ProductRepo struct {
	store *Store
	tx    *state
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.store.with(r.tx, func(st *state) error {
		if _, ok := st.spaces[product.SpaceID]; !ok {
			return domain.ErrNotFound
		}
		p := copyProduct(*product)
		p.SpaceName = ""
		st.products[p.ID] = productRow{p: p, seq: st.next()}
		return nil
	})
}

func (r *ProductRepo) GetInSpace(_ context.Context, spaceID, productID string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.with(r.tx, func(st *state) error {
		row, ok := st.products[productID]
		if ok && row.p.SpaceID == spaceID {
			out = withSpaceName(st, row.p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetInSpaceForUpdate(ctx context.Context, spaceID, productID string) (*entity.Product, error) {
	return r.GetInSpace(ctx, spaceID, productID)
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.store.with(r.tx, func(st *state) error {
		row, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		row.p.Name = product.Name
		row.p.Price = product.Price
		row.p.MinimumQuantity = copyInt(product.MinimumQuantity)
		row.p.MaximumQuantity = copyInt(product.MaximumQuantity)
		row.p.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = row
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.store.with(r.tx, func(st *state) error {
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) CountBySpace(_ context.Context, spaceID string) (int, error) {
	n := 0
	err := r.store.with(r.tx, func(st *state) error {
		for _, row := range st.products {
			if row.p.SpaceID == spaceID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) ListBySpace(_ context.Context, spaceID string) ([]*entity.Product, error) {
	return r.filter(func(st *state, p *entity.Product) bool { return p.SpaceID == spaceID })
}

func (r *ProductRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Product, error) {
	return r.filter(ownedBy(ownerID, ""))
}

func (r *ProductRepo) Search(_ context.Context, ownerID, spaceID, query string) ([]*entity.Product, error) {
	owned := ownedBy(ownerID, spaceID)
	needle := strings.ToLower(query)
	return r.filter(func(st *state, p *entity.Product) bool {
		return owned(st, p) && strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (r *ProductRepo) ListLowStock(_ context.Context, ownerID, spaceID string) ([]*entity.Product, error) {
	owned := ownedBy(ownerID, spaceID)
	list, err := r.filter(func(st *state, p *entity.Product) bool {
		return owned(st, p) && inventory.ProductIsLowStock(p)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CurrentStock != list[j].CurrentStock {
			return list[i].CurrentStock < list[j].CurrentStock
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *ProductRepo) IncrementStock(_ context.Context, id string, q int) (int, error) {
	var stock int
	err := r.store.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if _, err := inventory.ApplyAdd(row.p.CurrentStock, q); err != nil {
			return err
		}
		row.p.CurrentStock += q
		row.p.UpdatedAt = time.Now().UTC()
		st.products[id] = row
		stock = row.p.CurrentStock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) DecrementStock(_ context.Context, id string, q int) (int, error) {
	var stock int
	err := r.store.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.p.CurrentStock < q {
			return domain.ErrInsufficientStock
		}
		row.p.CurrentStock -= q
		row.p.UpdatedAt = time.Now().UTC()
		st.products[id] = row
		stock = row.p.CurrentStock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) SetStock(_ context.Context, id string, q int) error {
	if q < 0 {
		return domain.NewValidationError("current_stock", "el stock no puede ser negativo")
	}
	return r.store.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok {
			return nil
		}
		row.p.CurrentStock = q
		row.p.UpdatedAt = time.Now().UTC()
		st.products[id] = row
		return nil
	})
}

func (r *ProductRepo) filter(keep func(st *state, p *entity.Product) bool) ([]*entity.Product, error) {
	var rows []productRow
	var out []*entity.Product
	err := r.store.with(r.tx, func(st *state) error {
		for _, row := range st.products {
			if keep(st, &row.p) {
				rows = append(rows, row)
			}
		}
		sortNewest(rows,
			func(r productRow) int64 { return r.p.CreatedAt.UnixNano() },
			func(r productRow) int64 { return r.seq })
		for _, row := range rows {
			out = append(out, withSpaceName(st, row.p))
		}
		return nil
	})
	return out, err
}

func ownedBy(ownerID, spaceID string) func(st *state, p *entity.Product) bool {
	return func(st *state, p *entity.Product) bool {
		if spaceID != "" && p.SpaceID != spaceID {
			return false
		}
		sp, ok := st.spaces[p.SpaceID]
		return ok && sp.s.OwnerID == ownerID
	}
}

func withSpaceName(st *state, p entity.Product) *entity.Product {
	c := copyProduct(p)
	if sp, ok := st.spaces[c.SpaceID]; ok {
		c.SpaceName = sp.s.Name
	}
	return &c
}
