// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory).
// Las transacciones se serializan: Run trabaja sobre una copia del estado y la publica solo si fn no falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type productRow struct {
	p   entity.Product
	seq int64
}

type spaceRow struct {
	s   entity.Space
	seq int64
}

type state struct {
	seq      int64
	users    map[string]entity.User
	spaces   map[string]spaceRow
	products map[string]productRow
	audit    []entity.AuditEntry
	otps     []entity.OneTimeCode
}

func newState() *state {
	return &state{
		users:    make(map[string]entity.User),
		spaces:   make(map[string]spaceRow),
		products: make(map[string]productRow),
	}
}

func (st *state) next() int64 {
	st.seq++
	return st.seq
}

func (st *state) clone() *state {
	c := &state{
		seq:      st.seq,
		users:    make(map[string]entity.User, len(st.users)),
		spaces:   make(map[string]spaceRow, len(st.spaces)),
		products: make(map[string]productRow, len(st.products)),
		audit:    append([]entity.AuditEntry(nil), st.audit...),
		otps:     append([]entity.OneTimeCode(nil), st.otps...),
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.spaces {
		c.spaces[k] = v
	}
	for k, v := range st.products {
		v.p = copyProduct(v.p)
		c.products[k] = v
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Si fn devuelve nil la copia
// reemplaza al estado; si falla (o entra en pánico) se descarta.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	repos := repository.TxRepos{
		Users:    &UserRepo{store: s, tx: tx},
		Spaces:   &SpaceRepo{store: s, tx: tx},
		Products: &ProductRepo{store: s, tx: tx},
		Audit:    &AuditRepo{store: s, tx: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Users, Spaces, Products, Audit y OTP repositorios fuera de transacción.
func (s *Store) Users() *UserRepo       { return &UserRepo{store: s} }
func (s *Store) Spaces() *SpaceRepo     { return &SpaceRepo{store: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }
func (s *Store) Audit() *AuditRepo      { return &AuditRepo{store: s} }
func (s *Store) OTP() *OTPRepo          { return &OTPRepo{store: s} }

// with ejecuta fn sobre el estado de la tx, o sobre el estado global bajo el mutex.
func (s *Store) with(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyProduct(p entity.Product) entity.Product {
	p.MinimumQuantity = copyInt(p.MinimumQuantity)
	p.MaximumQuantity = copyInt(p.MaximumQuantity)
	return p
}

// sortNewest ordena por fecha de creación descendente; a igual fecha, el último insertado primero.
func sortNewest[T any](rows []T, created func(T) int64, seq func(T) int64) {
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := created(rows[i]), created(rows[j])
		if ci != cj {
			return ci > cj
		}
		return seq(rows[i]) > seq(rows[j])
	})
}
