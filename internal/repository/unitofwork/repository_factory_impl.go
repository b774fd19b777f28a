package unitofwork

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrConnectionUnavailable wraps failures to check a connection out of the pool.
var ErrConnectionUnavailable = errors.New("database connection unavailable")

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

func (f *RepositoryFactoryImpl) WithConnection(ctx context.Context, fn func(uow UnitOfWork) error) error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}
	defer conn.Close()

	tx := f.db.WithContext(ctx)
	tx.Statement.ConnPool = conn
	return fn(NewUnitOfWork(tx))
}
