package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tx *Transaction, lineItems []TransactionLineItem) error
	FindByRef(ctx context.Context, db *gorm.DB, ref string) (*Transaction, error)
	FindLineItems(ctx context.Context, db *gorm.DB, transactionID int64) ([]TransactionLineItem, error)
}
