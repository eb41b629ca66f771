// Package report builds read-only projections over the ledger: filtered
// sale sets, financial summaries, and per-counterparty performance
// breakdowns. Nothing here mutates the store.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"arzflow/internal/ledger"
)

// Filter restricts a report to matching sales. All conditions are
// conjunctive; zero values mean "no restriction". The date window is
// [StartDate, EndDate + 1 day): an end date includes the whole end day.
type Filter struct {
	SupplierID string
	ClientID   string
	StartDate  *time.Time
	EndDate    *time.Time
}

func (f Filter) matches(s ledger.SalesTransaction) bool {
	if f.SupplierID != "" && s.SupplierID != f.SupplierID {
		return false
	}
	if f.ClientID != "" && s.ClientID != f.ClientID {
		return false
	}
	if f.StartDate != nil && s.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !s.Date.Before(f.EndDate.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// FinancialSummary is the profit-and-loss view over a filtered sale set.
type FinancialSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	Margin       decimal.Decimal `json:"margin"`
}

// ClientPerformance aggregates one client's filtered sales.
type ClientPerformance struct {
	ClientID string          `json:"client_id"`
	Name     string          `json:"name"`
	Volume   decimal.Decimal `json:"volume"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
	TxCount  int             `json:"tx_count"`
}

// SupplierPerformance aggregates one supplier's filtered sales.
type SupplierPerformance struct {
	SupplierID  string          `json:"supplier_id"`
	Name        string          `json:"name"`
	TxCount     int             `json:"tx_count"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	AvgProfit   decimal.Decimal `json:"avg_profit"`
}

// StatementRow is one sale with its counterparty names resolved.
type StatementRow struct {
	ledger.SalesTransaction
	SupplierName string `json:"supplier_name"`
	ClientName   string `json:"client_name"`
}

// Statement is the filtered transaction log plus its totals.
type Statement struct {
	Rows          []StatementRow  `json:"rows"`
	TxCount       int             `json:"tx_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// ClientStatement is one client's full sales history with totals.
type ClientStatement struct {
	Client      ledger.Client   `json:"client"`
	Rows        []StatementRow  `json:"rows"`
	TxCount     int             `json:"tx_count"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// DashboardStats are the headline figures of the dashboard view.
type DashboardStats struct {
	TotalBalance  decimal.Decimal `json:"total_balance"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalVolume   decimal.Decimal `json:"total_volume"`
	SupplierCount int             `json:"supplier_count"`
	ClientCount   int             `json:"client_count"`
}

// Service answers reporting queries against the ledger service.
type Service struct {
	ledger *ledger.Service
	logger *zap.Logger
}

// NewService creates a new report Service.
func NewService(l *ledger.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: l, logger: logger}
}

// FilteredSales returns the sales matching the filter in insertion order.
func (s *Service) FilteredSales(f Filter) []ledger.SalesTransaction {
	all := s.ledger.Sales()
	out := make([]ledger.SalesTransaction, 0, len(all))
	for _, sale := range all {
		if f.matches(sale) {
			out = append(out, sale)
		}
	}
	return out
}

// FinancialSummary totals revenue, cost, and profit over the filtered
// sale set. Margin is profit over revenue and zero when revenue is zero.
func (s *Service) FinancialSummary(f Filter) FinancialSummary {
	var sum FinancialSummary
	for _, sale := range s.FilteredSales(f) {
		sum.TotalRevenue = sum.TotalRevenue.Add(sale.TotalPrice)
		sum.TotalCost = sum.TotalCost.Add(sale.PurchasePriceAtTime.Mul(sale.Quantity))
	}
	sum.TotalProfit = sum.TotalRevenue.Sub(sum.TotalCost)
	if sum.TotalRevenue.Sign() > 0 {
		sum.Margin = sum.TotalProfit.Div(sum.TotalRevenue)
	}
	return sum
}

// ClientAnalysis groups the filtered sales by client, sorted by
// descending profit.
func (s *Service) ClientAnalysis(f Filter) []ClientPerformance {
	names := map[string]string{}
	for _, c := range s.ledger.Clients() {
		names[c.ID] = c.Name
	}

	index := map[string]int{}
	var out []ClientPerformance
	for _, sale := range s.FilteredSales(f) {
		i, ok := index[sale.ClientID]
		if !ok {
			i = len(out)
			index[sale.ClientID] = i
			name, known := names[sale.ClientID]
			if !known {
				name = "unknown"
			}
			out = append(out, ClientPerformance{ClientID: sale.ClientID, Name: name})
		}
		out[i].Volume = out[i].Volume.Add(sale.Quantity)
		out[i].Revenue = out[i].Revenue.Add(sale.TotalPrice)
		out[i].Profit = out[i].Profit.Add(sale.Profit)
		out[i].TxCount++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit.GreaterThan(out[j].Profit)
	})
	return out
}

// SupplierAnalysis groups the filtered sales by supplier in first-seen
// order. AvgProfit is profit per unit of volume, zero when no volume.
func (s *Service) SupplierAnalysis(f Filter) []SupplierPerformance {
	names := map[string]string{}
	for _, sp := range s.ledger.Suppliers() {
		names[sp.ID] = sp.Name
	}

	index := map[string]int{}
	var out []SupplierPerformance
	for _, sale := range s.FilteredSales(f) {
		i, ok := index[sale.SupplierID]
		if !ok {
			i = len(out)
			index[sale.SupplierID] = i
			name, known := names[sale.SupplierID]
			if !known {
				name = "unknown"
			}
			out = append(out, SupplierPerformance{SupplierID: sale.SupplierID, Name: name})
		}
		out[i].TxCount++
		out[i].TotalVolume = out[i].TotalVolume.Add(sale.Quantity)
		out[i].TotalProfit = out[i].TotalProfit.Add(sale.Profit)
	}

	for i := range out {
		if out[i].TotalVolume.Sign() > 0 {
			out[i].AvgProfit = out[i].TotalProfit.Div(out[i].TotalVolume)
		}
	}
	return out
}

// SalesStatement returns the filtered sales with resolved names and
// running totals.
func (s *Service) SalesStatement(f Filter) Statement {
	st := Statement{Rows: s.resolveRows(s.FilteredSales(f))}
	for _, row := range st.Rows {
		st.TxCount++
		st.TotalQuantity = st.TotalQuantity.Add(row.Quantity)
		st.TotalRevenue = st.TotalRevenue.Add(row.TotalPrice)
		st.TotalProfit = st.TotalProfit.Add(row.Profit)
	}
	return st
}

// ClientStatement returns one client's sales history with totals.
func (s *Service) ClientStatement(clientID string) (ClientStatement, error) {
	client, err := s.ledger.ClientByID(clientID)
	if err != nil {
		return ClientStatement{}, err
	}

	st := ClientStatement{
		Client: client,
		Rows:   s.resolveRows(s.FilteredSales(Filter{ClientID: clientID})),
	}
	for _, row := range st.Rows {
		st.TxCount++
		st.TotalVolume = st.TotalVolume.Add(row.Quantity)
		st.TotalProfit = st.TotalProfit.Add(row.Profit)
	}
	return st, nil
}

// DashboardStats computes the headline totals over the whole store.
func (s *Service) DashboardStats() DashboardStats {
	var st DashboardStats
	suppliers := s.ledger.Suppliers()
	for _, sp := range suppliers {
		st.TotalBalance = st.TotalBalance.Add(sp.CurrentBalance)
	}
	sales := s.ledger.Sales()
	for _, sale := range sales {
		st.TotalProfit = st.TotalProfit.Add(sale.Profit)
		st.TotalVolume = st.TotalVolume.Add(sale.Quantity)
	}
	st.SupplierCount = len(suppliers)
	st.ClientCount = len(s.ledger.Clients())
	return st
}

func (s *Service) resolveRows(sales []ledger.SalesTransaction) []StatementRow {
	supplierNames := map[string]string{}
	for _, sp := range s.ledger.Suppliers() {
		supplierNames[sp.ID] = sp.Name
	}
	clientNames := map[string]string{}
	for _, c := range s.ledger.Clients() {
		clientNames[c.ID] = c.Name
	}

	rows := make([]StatementRow, 0, len(sales))
	for _, sale := range sales {
		rows = append(rows, StatementRow{
			SalesTransaction: sale,
			SupplierName:     supplierNames[sale.SupplierID],
			ClientName:       clientNames[sale.ClientID],
		})
	}
	return rows
}
