package ledger

import "errors"

// ErrSupplierNotFound is returned when a supplier reference does not resolve.
var ErrSupplierNotFound = errors.New("supplier not found")

// ErrClientNotFound is returned when a client reference does not resolve.
var ErrClientNotFound = errors.New("client not found")

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty record ID")

// Storage is the main interface for the ledger's entity store. Suppliers
// and clients are keyed by ID; purchases, sales, ledger entries, and audit
// logs are append-only and kept in insertion order.
type Storage interface {
	PutSupplier(s *Supplier) error
	Supplier(id string) (*Supplier, error)
	Suppliers() []*Supplier

	PutClient(c *Client) error
	Client(id string) (*Client, error)
	Clients() []*Client

	AppendPurchase(p *PurchaseTransaction) error
	Purchases() []*PurchaseTransaction
	LastPurchaseFor(supplierID string) *PurchaseTransaction

	AppendSale(s *SalesTransaction) error
	Sales() []*SalesTransaction

	AppendEntry(e *LedgerEntry) error
	Entries() []*LedgerEntry

	AppendAudit(a *AuditLog) error
	AuditLogs() []*AuditLog
}

// LocalStorage provides an in-memory implementation of the entity store.
type LocalStorage struct {
	suppliers   map[string]*Supplier
	supplierIDs []string
	clients     map[string]*Client
	clientIDs   []string
	purchases   []*PurchaseTransaction
	sales       []*SalesTransaction
	entries     []*LedgerEntry
	audits      []*AuditLog
}

// NewLocalStorage instantiates a new LocalStorage with empty collections.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		suppliers: map[string]*Supplier{},
		clients:   map[string]*Client{},
	}
}

// PutSupplier stores a supplier. Returns ErrEmptyID if the ID is empty.
func (l *LocalStorage) PutSupplier(s *Supplier) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	if _, ok := l.suppliers[s.ID]; !ok {
		l.supplierIDs = append(l.supplierIDs, s.ID)
	}
	l.suppliers[s.ID] = s
	return nil
}

// Supplier retrieves a supplier by ID.
// Returns ErrSupplierNotFound if it does not exist.
func (l *LocalStorage) Supplier(id string) (*Supplier, error) {
	s, ok := l.suppliers[id]
	if !ok {
		return nil, ErrSupplierNotFound
	}
	return s, nil
}

// Suppliers returns all suppliers in insertion order.
func (l *LocalStorage) Suppliers() []*Supplier {
	out := make([]*Supplier, 0, len(l.supplierIDs))
	for _, id := range l.supplierIDs {
		out = append(out, l.suppliers[id])
	}
	return out
}

// PutClient stores a client. Returns ErrEmptyID if the ID is empty.
func (l *LocalStorage) PutClient(c *Client) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	if _, ok := l.clients[c.ID]; !ok {
		l.clientIDs = append(l.clientIDs, c.ID)
	}
	l.clients[c.ID] = c
	return nil
}

// Client retrieves a client by ID. Returns ErrClientNotFound if it does
// not exist.
func (l *LocalStorage) Client(id string) (*Client, error) {
	c, ok := l.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// Clients returns all clients in insertion order.
func (l *LocalStorage) Clients() []*Client {
	out := make([]*Client, 0, len(l.clientIDs))
	for _, id := range l.clientIDs {
		out = append(out, l.clients[id])
	}
	return out
}

func (l *LocalStorage) AppendPurchase(p *PurchaseTransaction) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	l.purchases = append(l.purchases, p)
	return nil
}

func (l *LocalStorage) Purchases() []*PurchaseTransaction {
	return append([]*PurchaseTransaction(nil), l.purchases...)
}

// LastPurchaseFor returns the supplier's most recently appended purchase,
// or nil when the supplier has none. Insertion order, not transaction
// date, decides recency.
func (l *LocalStorage) LastPurchaseFor(supplierID string) *PurchaseTransaction {
	for i := len(l.purchases) - 1; i >= 0; i-- {
		if l.purchases[i].SupplierID == supplierID {
			return l.purchases[i]
		}
	}
	return nil
}

func (l *LocalStorage) AppendSale(s *SalesTransaction) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	l.sales = append(l.sales, s)
	return nil
}

func (l *LocalStorage) Sales() []*SalesTransaction {
	return append([]*SalesTransaction(nil), l.sales...)
}

func (l *LocalStorage) AppendEntry(e *LedgerEntry) error {
	if e.ID == "" {
		return ErrEmptyID
	}
	l.entries = append(l.entries, e)
	return nil
}

func (l *LocalStorage) Entries() []*LedgerEntry {
	return append([]*LedgerEntry(nil), l.entries...)
}

func (l *LocalStorage) AppendAudit(a *AuditLog) error {
	if a.ID == "" {
		return ErrEmptyID
	}
	l.audits = append(l.audits, a)
	return nil
}

func (l *LocalStorage) AuditLogs() []*AuditLog {
	return append([]*AuditLog(nil), l.audits...)
}
