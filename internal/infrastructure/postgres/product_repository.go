package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productSelect columnas de products más el nombre del espacio (alias p y s).
const productSelect = `
	SELECT p.id, p.space_id, p.name, p.price, p.current_stock, p.minimum_quantity, p.maximum_quantity,
	       p.created_at, p.updated_at, s.name
	FROM products p
	JOIN spaces s ON s.id = p.space_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, space_id, name, price, current_stock, minimum_quantity, maximum_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SpaceID, product.Name, product.Price, product.CurrentStock,
		product.MinimumQuantity, product.MaximumQuantity, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) || isOutOfRange(err) {
			return domain.NewValidationError("product", "valores de producto fuera de rango")
		}
		// el espacio se borró en otra transacción mientras se insertaba
		if isForeignKeyViolation(err) {
			return domain.ErrAccessDenied
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetInSpace obtiene un producto solo si pertenece al espacio.
func (r *ProductRepo) GetInSpace(ctx context.Context, spaceID, productID string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1 AND p.space_id = $2`, productID, spaceID)
}

// GetInSpaceForUpdate igual que GetInSpace pero bloquea la fila del producto.
func (r *ProductRepo) GetInSpaceForUpdate(ctx context.Context, spaceID, productID string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1 AND p.space_id = $2 FOR UPDATE OF p`, productID, spaceID)
}

// Update actualiza los datos descriptivos. El stock se modifica solo con los métodos de stock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, price = $3, minimum_quantity = $4, maximum_quantity = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.MinimumQuantity, product.MaximumQuantity, product.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("product", "valores de producto fuera de rango")
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// CountBySpace cuenta los productos del espacio.
func (r *ProductRepo) CountBySpace(ctx context.Context, spaceID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE space_id = $1`, spaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// ListBySpace lista los productos del espacio, más recientes primero.
func (r *ProductRepo) ListBySpace(ctx context.Context, spaceID string) ([]*entity.Product, error) {
	return r.list(ctx, productSelect+` WHERE p.space_id = $1 ORDER BY p.created_at DESC, p.id`, spaceID)
}

// ListByOwner lista los productos de todos los espacios del dueño.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	return r.list(ctx, productSelect+` WHERE s.owner_id = $1 ORDER BY p.created_at DESC, p.id`, ownerID)
}

// Search busca por subcadena del nombre sin distinguir mayúsculas. Los comodines de LIKE no aplican.
func (r *ProductRepo) Search(ctx context.Context, ownerID, spaceID, query string) ([]*entity.Product, error) {
	sql := productSelect + ` WHERE s.owner_id = $1 AND position(lower($2) in lower(p.name)) > 0`
	args := []any{ownerID, query}
	if spaceID != "" {
		sql += ` AND p.space_id = $3`
		args = append(args, spaceID)
	}
	sql += ` ORDER BY p.created_at DESC, p.id`
	return r.list(ctx, sql, args...)
}

// ListLowStock productos con mínimo configurado y stock en o por debajo de él.
func (r *ProductRepo) ListLowStock(ctx context.Context, ownerID, spaceID string) ([]*entity.Product, error) {
	sql := productSelect + ` WHERE s.owner_id = $1 AND p.minimum_quantity IS NOT NULL AND p.current_stock <= p.minimum_quantity`
	args := []any{ownerID}
	if spaceID != "" {
		sql += ` AND p.space_id = $2`
		args = append(args, spaceID)
	}
	sql += ` ORDER BY p.current_stock ASC, p.name`
	return r.list(ctx, sql, args...)
}

// IncrementStock suma q al stock y devuelve el valor resultante.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, q int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET current_stock = current_stock + $2, updated_at = now() WHERE id = $1 RETURNING current_stock`,
		id, q,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isOutOfRange(err) {
			return 0, domain.NewValidationError("quantity", "el stock resultante excede el máximo permitido")
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}

// DecrementStock resta q solo si alcanza el stock; en otro caso no modifica la fila.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, q int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET current_stock = current_stock - $2, updated_at = now()
		 WHERE id = $1 AND current_stock >= $2 RETURNING current_stock`,
		id, q,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return stock, nil
}

// SetStock sobrescribe el stock.
func (r *ProductRepo) SetStock(ctx context.Context, id string, q int) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`, id, q)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("current_stock", "el stock no puede ser negativo")
		}
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SpaceID, &p.Name, &p.Price, &p.CurrentStock, &p.MinimumQuantity, &p.MaximumQuantity,
		&p.CreatedAt, &p.UpdatedAt, &p.SpaceName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
