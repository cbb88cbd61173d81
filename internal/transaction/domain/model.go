package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionState string

var (
	TransactionStateSpeculative TransactionState = "speculative"
	TransactionStateInitiated   TransactionState = "initiated"
)

type Transaction struct {
	ID  int64  `json:"id" gorm:"primaryKey"`
	Ref string `json:"ref" gorm:"type:text;not null;uniqueIndex:ux_transactions_ref"`

	ListingID *int64  `json:"listing_id,omitempty" gorm:"column:listing_id;index:ix_transactions_listing"`
	CartToken *string `json:"cart_token,omitempty" gorm:"column:cart_token;type:text"`

	State          TransactionState `json:"state" gorm:"type:text;not null"`
	ProcessAlias   string           `json:"process_alias" gorm:"column:process_alias;type:text;not null"`
	Transition     string           `json:"transition" gorm:"type:text;not null"`
	DeliveryMethod string           `json:"delivery_method" gorm:"column:delivery_method;type:text;not null;default:''"`

	Currency    string `json:"currency" gorm:"type:text;not null"`
	PayinTotal  int64  `json:"payin_total" gorm:"column:payin_total;not null"`
	PayoutTotal int64  `json:"payout_total" gorm:"column:payout_total;not null"`

	RemoteTransactionID *string `json:"remote_transaction_id,omitempty" gorm:"column:remote_transaction_id;type:text"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string { return "transactions" }

// TransactionLineItem is one persisted row of a transaction's breakdown.
// Decimal columns are stored as text so no precision is lost round-tripping
// through the database.
type TransactionLineItem struct {
	ID            int64 `json:"id" gorm:"primaryKey"`
	TransactionID int64 `json:"transaction_id" gorm:"column:transaction_id;not null;index:ix_transaction_line_items_tx"`

	Code            string           `json:"code" gorm:"type:text;not null"`
	UnitPriceAmount int64            `json:"unit_price_amount" gorm:"column:unit_price_amount;not null"`
	Currency        string           `json:"currency" gorm:"type:text;not null"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty" gorm:"type:text"`
	Units           *decimal.Decimal `json:"units,omitempty" gorm:"type:text"`
	Seats           *decimal.Decimal `json:"seats,omitempty" gorm:"type:text"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty" gorm:"type:text"`
	LineTotalAmount int64            `json:"line_total_amount" gorm:"column:line_total_amount;not null"`
	IncludeFor      string           `json:"include_for" gorm:"column:include_for;type:text;not null"`
	Reversal        bool             `json:"reversal" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TransactionLineItem) TableName() string { return "transaction_line_items" }
