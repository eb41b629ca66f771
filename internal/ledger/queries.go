package ledger

// Read accessors. Every slice and record returned here is a copy; callers
// can hold or mutate them without touching the store.

// Suppliers returns all suppliers in insertion order.
func (s *Service) Suppliers() []Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.Suppliers()
	out := make([]Supplier, 0, len(stored))
	for _, sp := range stored {
		out = append(out, *sp)
	}
	return out
}

// SupplierByID returns one supplier, or ErrSupplierNotFound.
func (s *Service) SupplierByID(id string) (Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, err := s.storage.Supplier(id)
	if err != nil {
		return Supplier{}, err
	}
	return *sp, nil
}

// Clients returns all clients in insertion order.
func (s *Service) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.Clients()
	out := make([]Client, 0, len(stored))
	for _, c := range stored {
		out = append(out, *c)
	}
	return out
}

// ClientByID returns one client, or ErrClientNotFound.
func (s *Service) ClientByID(id string) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.storage.Client(id)
	if err != nil {
		return Client{}, err
	}
	return *c, nil
}

// Purchases returns all purchases in insertion order.
func (s *Service) Purchases() []PurchaseTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.Purchases()
	out := make([]PurchaseTransaction, 0, len(stored))
	for _, p := range stored {
		out = append(out, *p)
	}
	return out
}

// Sales returns all sales in insertion order.
func (s *Service) Sales() []SalesTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.Sales()
	out := make([]SalesTransaction, 0, len(stored))
	for _, sl := range stored {
		out = append(out, *sl)
	}
	return out
}

// Ledger returns ledger entries in insertion order, restricted to one
// supplier when supplierID is nonempty. Insertion order coincides with
// chronological order only when dates are entered in order; entries are
// never re-sorted by date.
func (s *Service) Ledger(supplierID string) []LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.Entries()
	out := make([]LedgerEntry, 0, len(stored))
	for _, e := range stored {
		if supplierID != "" && e.SupplierID != supplierID {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// AuditLogs returns all audit records in insertion order.
func (s *Service) AuditLogs() []AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.storage.AuditLogs()
	out := make([]AuditLog, 0, len(stored))
	for _, a := range stored {
		out = append(out, *a)
	}
	return out
}
