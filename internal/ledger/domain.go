package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry by the kind of movement it records.
type EntryType string

const (
	EntryPurchase   EntryType = "PURCHASE"
	EntrySale       EntryType = "SALE"
	EntryAdjustment EntryType = "ADJUSTMENT"
)

// PaymentMethod is how the monetary side of a transaction was settled.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "CASH"
	PaymentBank    PaymentMethod = "BANK"
	PaymentEWallet PaymentMethod = "E_WALLET"
)

// Supplier is a counterparty that deposits quantity into the ledger.
// CurrentBalance is always TotalIn minus TotalOut; only the ledger
// service mutates these aggregates.
type Supplier struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalIn        decimal.Decimal `json:"total_in"`
	TotalOut       decimal.Decimal `json:"total_out"`
	// NetDiff is reserved for reconciliation and is never computed.
	NetDiff   decimal.Decimal `json:"net_diff"`
	CreatedAt time.Time       `json:"created_at"`
}

// Client is a counterparty that receives quantity through sales.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// PurchaseTransaction records quantity entering a supplier's balance.
// Immutable once created.
type PurchaseTransaction struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplier_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Date          time.Time       `json:"date"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// SalesTransaction records quantity leaving a supplier's balance toward a
// client. PurchasePriceAtTime and Profit are fixed at creation time and
// never recomputed.
type SalesTransaction struct {
	ID                  string          `json:"id"`
	SupplierID          string          `json:"supplier_id"`
	ClientID            string          `json:"client_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	PurchasePriceAtTime decimal.Decimal `json:"purchase_price_at_time"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	Profit              decimal.Decimal `json:"profit"`
	PaymentMethod       PaymentMethod   `json:"payment_method"`
	Date                time.Time       `json:"date"`
	ImageURL            string          `json:"image_url,omitempty"`
}

// LedgerEntry is one balance-affecting event for a supplier. Entries are
// append-only and kept in insertion order; exactly one of AmountIn and
// AmountOut is nonzero. BalanceAfter snapshots the supplier balance
// immediately after the entry was applied.
type LedgerEntry struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplier_id"`
	Type          EntryType       `json:"type"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	AmountIn      decimal.Decimal `json:"amount_in"`
	AmountOut     decimal.Decimal `json:"amount_out"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Timestamp     time.Time       `json:"timestamp"`
	ReferenceID   string          `json:"reference_id"`
	Operator      string          `json:"operator"`
	ImageURL      string          `json:"image_url,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// AuditAction is the kind of mutation an audit record describes.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLog records one mutation performed by the ledger service.
type AuditLog struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Table     string      `json:"table"`
	RecordID  string      `json:"record_id"`
	OldData   any         `json:"old_data,omitempty"`
	NewData   any         `json:"new_data,omitempty"`
	Operator  string      `json:"operator"`
	Timestamp time.Time   `json:"timestamp"`
}
