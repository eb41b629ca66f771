// Package export serializes report projections to Excel workbooks. It
// consumes read-only rows from the report layer and never touches the
// ledger itself.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"arzflow/internal/report"
)

// ContentType is the MIME type of an .xlsx attachment.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Sheet1"

// WriteTo streams a workbook to w and closes it.
func WriteTo(f *excelize.File, w io.Writer) error {
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func newSheet(headings ...string) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, rowNo int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// PnL builds the profit-and-loss summary workbook.
func PnL(sum report.FinancialSummary) (*excelize.File, error) {
	f, err := newSheet("Metric", "Value")
	if err != nil {
		return nil, err
	}
	rows := []struct {
		metric string
		value  string
	}{
		{"Total Revenue", sum.TotalRevenue.String()},
		{"Total Cost", sum.TotalCost.String()},
		{"Net Profit", sum.TotalProfit.String()},
		{"Margin", sum.Margin.String()},
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r.metric, r.value); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ClientAnalysis builds the per-client performance workbook.
func ClientAnalysis(rows []report.ClientPerformance) (*excelize.File, error) {
	f, err := newSheet("Client", "Transactions", "Volume", "Revenue", "Profit")
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		err := setRow(f, i+2, r.Name, r.TxCount,
			r.Volume.String(), r.Revenue.String(), r.Profit.String())
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SupplierAnalysis builds the per-supplier performance workbook.
func SupplierAnalysis(rows []report.SupplierPerformance) (*excelize.File, error) {
	f, err := newSheet("Supplier", "Transactions", "Total Volume", "Total Profit", "Avg Unit Profit")
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		err := setRow(f, i+2, r.Name, r.TxCount,
			r.TotalVolume.String(), r.TotalProfit.String(), r.AvgProfit.String())
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SalesStatement builds the filtered transaction-log workbook.
func SalesStatement(st report.Statement) (*excelize.File, error) {
	f, err := newSheet("Date", "Supplier", "Client", "Quantity",
		"Unit Price", "Total", "Cost Basis", "Profit", "Payment")
	if err != nil {
		return nil, err
	}
	for i, r := range st.Rows {
		err := setRow(f, i+2,
			r.Date.Format("2006-01-02"), r.SupplierName, r.ClientName,
			r.Quantity.String(), r.UnitPrice.String(), r.TotalPrice.String(),
			r.PurchasePriceAtTime.String(), r.Profit.String(), string(r.PaymentMethod))
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ClientStatement builds one client's account-statement workbook.
func ClientStatement(st report.ClientStatement) (*excelize.File, error) {
	f, err := newSheet("Date", "Supplier", "Quantity", "Unit Price", "Total", "Profit", "Payment")
	if err != nil {
		return nil, err
	}
	for i, r := range st.Rows {
		err := setRow(f, i+2,
			r.Date.Format("2006-01-02"), r.SupplierName,
			r.Quantity.String(), r.UnitPrice.String(), r.TotalPrice.String(),
			r.Profit.String(), string(r.PaymentMethod))
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
