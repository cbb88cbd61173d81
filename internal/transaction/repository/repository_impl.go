package repository

import (
	"context"

	"github.com/pedalroom/pedalroom/internal/transaction/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tx *domain.Transaction, lineItems []domain.TransactionLineItem) error {
	return db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Exec(
			`INSERT INTO transactions (id, ref, listing_id, cart_token, state, process_alias, transition,
			     delivery_method, currency, payin_total, payout_total, remote_transaction_id, metadata,
			     created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.ID,
			tx.Ref,
			tx.ListingID,
			tx.CartToken,
			tx.State,
			tx.ProcessAlias,
			tx.Transition,
			tx.DeliveryMethod,
			tx.Currency,
			tx.PayinTotal,
			tx.PayoutTotal,
			tx.RemoteTransactionID,
			tx.Metadata,
			tx.CreatedAt,
			tx.UpdatedAt,
		).Error; err != nil {
			return err
		}

		for _, li := range lineItems {
			if err := dbtx.Exec(
				`INSERT INTO transaction_line_items (id, transaction_id, code, unit_price_amount, currency,
				     quantity, units, seats, percentage, line_total_amount, include_for, reversal, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				li.ID,
				li.TransactionID,
				li.Code,
				li.UnitPriceAmount,
				li.Currency,
				li.Quantity,
				li.Units,
				li.Seats,
				li.Percentage,
				li.LineTotalAmount,
				li.IncludeFor,
				li.Reversal,
				li.CreatedAt,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) FindByRef(ctx context.Context, db *gorm.DB, ref string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, ref, listing_id, cart_token, state, process_alias, transition, delivery_method,
		     currency, payin_total, payout_total, remote_transaction_id, metadata, created_at, updated_at
		 FROM transactions WHERE ref = ?`,
		ref,
	).Scan(&tx).Error
	if err != nil {
		return nil, err
	}
	if tx.ID == 0 {
		return nil, nil
	}
	return &tx, nil
}

func (r *repo) FindLineItems(ctx context.Context, db *gorm.DB, transactionID int64) ([]domain.TransactionLineItem, error) {
	var items []domain.TransactionLineItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, transaction_id, code, unit_price_amount, currency, quantity, units, seats,
		     percentage, line_total_amount, include_for, reversal, created_at
		 FROM transaction_line_items WHERE transaction_id = ? ORDER BY id ASC`,
		transactionID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
