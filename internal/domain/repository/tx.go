package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users    UserRepository
	Spaces   SpaceRepository
	Products ProductRepository
	Audit    AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
