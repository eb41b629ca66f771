package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInsufficientBalance is returned when a sale or negative adjustment
// would take a supplier's balance below zero.
var ErrInsufficientBalance = errors.New("insufficient supplier balance")

// ErrInvalidQuantity is returned when a transaction quantity is not positive.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// ErrInvalidUnitPrice is returned when a unit price is negative.
var ErrInvalidUnitPrice = errors.New("unit price must not be negative")

// assumedMarginFactor synthesizes a cost basis for a sale when the
// supplier has no prior purchase: 95% of the sale unit price.
var assumedMarginFactor = decimal.RequireFromString("0.95")

// Service provides the ledger engine operations on a Storage backend.
// All validation happens before any write, so a failed operation leaves
// the store untouched. A single lock spans each mutating operation; the
// read accessors share it, so every caller observes the supplier
// aggregates and the ledger in a mutually consistent state.
type Service struct {
	mu       sync.RWMutex
	storage  Storage
	logger   *zap.Logger
	operator string
}

// NewService creates a new Service. The operator label is stamped on
// every ledger and audit entry the service produces.
func NewService(storage Storage, logger *zap.Logger, operator string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:  storage,
		logger:   logger,
		operator: operator,
	}
}

// PurchaseInput describes a purchase to record.
type PurchaseInput struct {
	SupplierID    string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	PaymentMethod PaymentMethod
	Date          time.Time
	ImageURL      string
}

// SaleInput describes a sale to record.
type SaleInput struct {
	SupplierID    string
	ClientID      string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	PaymentMethod PaymentMethod
	Date          time.Time
	ImageURL      string
}

// AdjustmentInput describes a manual balance correction. A positive
// quantity credits the supplier, a negative one debits it.
type AdjustmentInput struct {
	SupplierID    string
	Quantity      decimal.Decimal
	PaymentMethod PaymentMethod
	Date          time.Time
	Notes         string
}

// AddSupplier creates a supplier with zeroed aggregates and returns it.
func (s *Service) AddSupplier(name, phone string) (*Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier := &Supplier{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if err := s.storage.PutSupplier(supplier); err != nil {
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.audit(AuditCreate, "suppliers", supplier.ID, nil, *supplier)

	s.logger.Info("supplier added",
		zap.String("supplier_id", supplier.ID),
		zap.String("name", name),
	)
	out := *supplier
	return &out, nil
}

// AddClient creates a client and returns it.
func (s *Service) AddClient(name, phone string) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client := &Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if err := s.storage.PutClient(client); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	s.audit(AuditCreate, "clients", client.ID, nil, *client)

	s.logger.Info("client added",
		zap.String("client_id", client.ID),
		zap.String("name", name),
	)
	out := *client
	return &out, nil
}

// RecordPurchase validates the input, creates the purchase, credits the
// supplier's balance and TotalIn, and appends the matching PURCHASE
// ledger entry. The returned transaction is a copy the caller owns.
func (s *Service) RecordPurchase(in PurchaseInput) (*PurchaseTransaction, error) {
	if in.Quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.UnitPrice.Sign() < 0 {
		return nil, ErrInvalidUnitPrice
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, err := s.storage.Supplier(in.SupplierID)
	if err != nil {
		return nil, err
	}

	purchase := &PurchaseTransaction{
		ID:            uuid.NewString(),
		SupplierID:    in.SupplierID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		TotalPrice:    in.Quantity.Mul(in.UnitPrice),
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		ImageURL:      in.ImageURL,
	}
	if err := s.storage.AppendPurchase(purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	before := *supplier
	supplier.CurrentBalance = supplier.CurrentBalance.Add(in.Quantity)
	supplier.TotalIn = supplier.TotalIn.Add(in.Quantity)

	entry := &LedgerEntry{
		ID:            uuid.NewString(),
		SupplierID:    in.SupplierID,
		Type:          EntryPurchase,
		PaymentMethod: in.PaymentMethod,
		AmountIn:      in.Quantity,
		BalanceAfter:  supplier.CurrentBalance,
		UnitPrice:     in.UnitPrice,
		TotalValue:    purchase.TotalPrice,
		Timestamp:     in.Date,
		ReferenceID:   purchase.ID,
		Operator:      s.operator,
		ImageURL:      in.ImageURL,
	}
	if err := s.storage.AppendEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	s.audit(AuditCreate, "purchases", purchase.ID, nil, *purchase)
	s.audit(AuditUpdate, "suppliers", supplier.ID, before, *supplier)

	s.logger.Info("purchase recorded",
		zap.String("purchase_id", purchase.ID),
		zap.String("supplier_id", in.SupplierID),
		zap.String("quantity", in.Quantity.String()),
		zap.String("balance_after", supplier.CurrentBalance.String()),
	)
	out := *purchase
	return &out, nil
}

// RecordSale validates the input, fixes the cost basis and profit,
// creates the sale, debits the supplier's balance, and appends the
// matching SALE ledger entry.
//
// The cost basis is the unit price of the supplier's most recently
// appended purchase; when the supplier has none, 95% of the sale unit
// price is assumed. Profit can be negative when selling below cost.
func (s *Service) RecordSale(in SaleInput) (*SalesTransaction, error) {
	if in.Quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.UnitPrice.Sign() < 0 {
		return nil, ErrInvalidUnitPrice
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, err := s.storage.Supplier(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.Client(in.ClientID); err != nil {
		return nil, err
	}
	if supplier.CurrentBalance.LessThan(in.Quantity) {
		return nil, ErrInsufficientBalance
	}

	costBasis := in.UnitPrice.Mul(assumedMarginFactor)
	if last := s.storage.LastPurchaseFor(in.SupplierID); last != nil {
		costBasis = last.UnitPrice
	}

	sale := &SalesTransaction{
		ID:                  uuid.NewString(),
		SupplierID:          in.SupplierID,
		ClientID:            in.ClientID,
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		PurchasePriceAtTime: costBasis,
		TotalPrice:          in.Quantity.Mul(in.UnitPrice),
		Profit:              in.UnitPrice.Sub(costBasis).Mul(in.Quantity),
		PaymentMethod:       in.PaymentMethod,
		Date:                in.Date,
		ImageURL:            in.ImageURL,
	}
	if err := s.storage.AppendSale(sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	before := *supplier
	supplier.CurrentBalance = supplier.CurrentBalance.Sub(in.Quantity)
	supplier.TotalOut = supplier.TotalOut.Add(in.Quantity)

	entry := &LedgerEntry{
		ID:            uuid.NewString(),
		SupplierID:    in.SupplierID,
		Type:          EntrySale,
		PaymentMethod: in.PaymentMethod,
		AmountOut:     in.Quantity,
		BalanceAfter:  supplier.CurrentBalance,
		UnitPrice:     in.UnitPrice,
		TotalValue:    sale.TotalPrice,
		Timestamp:     in.Date,
		ReferenceID:   sale.ID,
		Operator:      s.operator,
		ImageURL:      in.ImageURL,
	}
	if err := s.storage.AppendEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	s.audit(AuditCreate, "sales", sale.ID, nil, *sale)
	s.audit(AuditUpdate, "suppliers", supplier.ID, before, *supplier)

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("supplier_id", in.SupplierID),
		zap.String("client_id", in.ClientID),
		zap.String("quantity", in.Quantity.String()),
		zap.String("profit", sale.Profit.String()),
		zap.String("balance_after", supplier.CurrentBalance.String()),
	)
	out := *sale
	return &out, nil
}

// RecordAdjustment applies a manual balance correction and appends the
// matching ADJUSTMENT ledger entry. TotalIn or TotalOut moves with the
// balance so the aggregate invariant keeps holding.
func (s *Service) RecordAdjustment(in AdjustmentInput) (*LedgerEntry, error) {
	if in.Quantity.Sign() == 0 {
		return nil, ErrInvalidQuantity
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, err := s.storage.Supplier(in.SupplierID)
	if err != nil {
		return nil, err
	}

	debit := in.Quantity.Sign() < 0
	amount := in.Quantity.Abs()
	if debit && supplier.CurrentBalance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	before := *supplier
	entry := &LedgerEntry{
		ID:            uuid.NewString(),
		SupplierID:    in.SupplierID,
		Type:          EntryAdjustment,
		PaymentMethod: in.PaymentMethod,
		Timestamp:     in.Date,
		Operator:      s.operator,
		Notes:         in.Notes,
	}
	if debit {
		supplier.CurrentBalance = supplier.CurrentBalance.Sub(amount)
		supplier.TotalOut = supplier.TotalOut.Add(amount)
		entry.AmountOut = amount
	} else {
		supplier.CurrentBalance = supplier.CurrentBalance.Add(amount)
		supplier.TotalIn = supplier.TotalIn.Add(amount)
		entry.AmountIn = amount
	}
	entry.BalanceAfter = supplier.CurrentBalance

	if err := s.storage.AppendEntry(entry); err != nil {
		supplier.CurrentBalance = before.CurrentBalance
		supplier.TotalIn = before.TotalIn
		supplier.TotalOut = before.TotalOut
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	s.audit(AuditCreate, "ledger", entry.ID, nil, *entry)
	s.audit(AuditUpdate, "suppliers", supplier.ID, before, *supplier)

	s.logger.Info("adjustment recorded",
		zap.String("entry_id", entry.ID),
		zap.String("supplier_id", in.SupplierID),
		zap.String("quantity", in.Quantity.String()),
		zap.String("balance_after", supplier.CurrentBalance.String()),
	)
	out := *entry
	return &out, nil
}

// audit appends a mutation record. Failures are logged and swallowed:
// the audit trail never vetoes a ledger operation.
func (s *Service) audit(action AuditAction, table, recordID string, oldData, newData any) {
	log := &AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		OldData:   oldData,
		NewData:   newData,
		Operator:  s.operator,
		Timestamp: time.Now(),
	}
	if err := s.storage.AppendAudit(log); err != nil {
		s.logger.Error("failed to append audit log",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
	}
}
