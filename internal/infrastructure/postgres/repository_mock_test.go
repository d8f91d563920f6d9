package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestTxRunner_CommitYRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := postgres.NewTxRunner(mock).Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			assert.NotNil(t, repos.Users)
			assert.NotNil(t, repos.Spaces)
			assert.NotNil(t, repos.Products)
			assert.NotNil(t, repos.Audit)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("rollback devuelve el error original", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := postgres.NewTxRunner(mock).Run(ctx, func(context.Context, repository.TxRepos) error {
			return domain.ErrQuotaExceeded
		})
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("panic hace rollback", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = postgres.NewTxRunner(mock).Run(ctx, func(context.Context, repository.TxRepos) error {
				panic("boom")
			})
		})
	})
}

func TestProductRepo_DecrementStock(t *testing.T) {
	ctx := context.Background()
	q := regexp.QuoteMeta("WHERE id = $1 AND current_stock >= $2 RETURNING current_stock")

	t.Run("suficiente", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q).WithArgs("p1", 4).
			WillReturnRows(pgxmock.NewRows([]string{"current_stock"}).AddRow(6))

		got, err := postgres.NewProductRepository(mock).DecrementStock(ctx, "p1", 4)
		require.NoError(t, err)
		assert.Equal(t, 6, got)
	})

	t.Run("insuficiente", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q).WithArgs("p1", 20).WillReturnError(pgx.ErrNoRows)

		_, err := postgres.NewProductRepository(mock).DecrementStock(ctx, "p1", 20)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})
}

func TestProductRepo_CountBySpace(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE space_id = $1")).
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := postgres.NewProductRepository(mock).CountBySpace(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestProductRepo_SearchFiltraEspacioOpcional(t *testing.T) {
	cols := []string{"id", "space_id", "name", "price", "current_stock", "minimum_quantity",
		"maximum_quantity", "created_at", "updated_at", "space_name"}

	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("position(lower($2) in lower(p.name)) > 0 AND p.space_id = $3")).
		WithArgs("o1", "wid", "s1").
		WillReturnRows(pgxmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta("position(lower($2) in lower(p.name)) > 0 ORDER BY")).
		WithArgs("o1", "50%").
		WillReturnRows(pgxmock.NewRows(cols))

	repo := postgres.NewProductRepository(mock)
	list, err := repo.Search(context.Background(), "o1", "s1", "wid")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.Search(context.Background(), "o1", "", "50%")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSpaceRepo_CreateNombreDuplicado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO spaces").
		WithArgs("s1", "u1", "Warehouse", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_spaces_owner_name"})

	err := postgres.NewSpaceRepository(mock).Create(context.Background(), &entity.Space{
		ID: "s1", OwnerID: "u1", Name: "Warehouse", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestSpaceRepo_GetByIDNoEncontrado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM spaces WHERE id").WithArgs("s1").WillReturnError(pgx.ErrNoRows)

	s, err := postgres.NewSpaceRepository(mock).GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestUserRepo_MarkVerified(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("UPDATE users SET verified").WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET verified").WithArgs("u2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewUserRepository(mock)
	require.NoError(t, repo.MarkVerified(context.Background(), "u1"))
	assert.ErrorIs(t, repo.MarkVerified(context.Background(), "u2"), domain.ErrUserNotFound)
}

func TestAuditRepo_Append(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs("a1", "u1", "SPACE", "s1", "CREATE", `{"spaceName":"Garage"}`, pgxmock.AnyArg(),
			"10.0.0.1", nil, nil, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := postgres.NewAuditRepository(mock).Append(context.Background(), &entity.AuditEntry{
		ID: "a1", UserID: "u1", EntityType: "SPACE", EntityID: "s1", Operation: "CREATE",
		Details: `{"spaceName":"Garage"}`, Timestamp: time.Now(), IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
}

func TestAuditRepo_AppendEnTxUsaSavepoint(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectBegin() // savepoint
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(anyArgs(11)...).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback() // rollback to savepoint
	mock.ExpectCommit()

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = postgres.NewTxAuditRepository(tx).Append(ctx, &entity.AuditEntry{ID: "a1", UserID: "u1"})
	require.Error(t, err)
	require.NoError(t, tx.Commit(ctx))
}

func TestAuditRepo_ListConstruyeFiltros(t *testing.T) {
	cols := []string{"id", "user_id", "entity_type", "entity_id", "operation", "details", "logged_at",
		"ip_address", "user_agent", "related_entity_id", "related_entity_type"}
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs WHERE user_id = $1 AND operation = $2")).
		WithArgs("u1", "CREATE").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs("u1", "CREATE", 20, 40).
		WillReturnRows(pgxmock.NewRows(cols))

	list, total, err := postgres.NewAuditRepository(mock).List(context.Background(), entity.AuditFilter{
		UserID: "u1", Operation: "CREATE", Limit: 20, Offset: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, list)
}

func TestSpaceRepo_GetByIDForUpdateBloqueaLaFila(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM spaces WHERE id = $1 FOR UPDATE")).WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}).
			AddRow("s1", "u1", "Garage", time.Now(), time.Now()))

	s, err := postgres.NewSpaceRepository(mock).GetByIDForUpdate(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Garage", s.Name)
}

func TestProductRepo_CreateEnEspacioBorrado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "products_space_id_fkey"})

	err := postgres.NewProductRepository(mock).Create(context.Background(), &entity.Product{
		ID: "p1", SpaceID: "s1", Name: "Bolt", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestProductRepo_IncrementStockFueraDeRango(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SET current_stock = current_stock + $2")).
		WithArgs("p1", 10).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "integer out of range"})

	_, err := postgres.NewProductRepository(mock).IncrementStock(context.Background(), "p1", 10)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
}
