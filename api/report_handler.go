package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"arzflow/internal/export"
	"arzflow/internal/report"
)

// reportHandler implements the reporting and Excel-export endpoints.
type reportHandler struct {
	reportService *report.Service
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService *report.Service, logger *zap.Logger) *reportHandler {
	return &reportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// filterFromQuery reads the conjunctive report filter from the query
// string: supplier_id, client_id, start_date, end_date.
func filterFromQuery(c *gin.Context) (report.Filter, error) {
	f := report.Filter{
		SupplierID: c.Query("supplier_id"),
		ClientID:   c.Query("client_id"),
	}
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("invalid start_date: %q", s)
		}
		f.StartDate = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("invalid end_date: %q", s)
		}
		f.EndDate = &t
	}
	return f, nil
}

// handleDashboard handles GET /api/dashboard.
func (h *reportHandler) handleDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.DashboardStats())
}

// handleFinancialSummary handles GET /api/reports/summary.
func (h *reportHandler) handleFinancialSummary(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reportService.FinancialSummary(f))
}

// handleClientAnalysis handles GET /api/reports/clients.
func (h *reportHandler) handleClientAnalysis(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reportService.ClientAnalysis(f))
}

// handleSupplierAnalysis handles GET /api/reports/suppliers.
func (h *reportHandler) handleSupplierAnalysis(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reportService.SupplierAnalysis(f))
}

// handleSalesStatement handles GET /api/reports/statement.
func (h *reportHandler) handleSalesStatement(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reportService.SalesStatement(f))
}

// handleClientStatement handles GET /api/clients/:id/statement.
func (h *reportHandler) handleClientStatement(c *gin.Context) {
	st, err := h.reportService.ClientStatement(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// handleExportReport handles GET /api/reports/export?report=. The report
// kinds mirror the dashboard's report tabs.
func (h *reportHandler) handleExportReport(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := c.DefaultQuery("report", "pnl")
	var file *excelize.File
	switch kind {
	case "pnl":
		file, err = export.PnL(h.reportService.FinancialSummary(f))
	case "clients":
		file, err = export.ClientAnalysis(h.reportService.ClientAnalysis(f))
	case "suppliers":
		file, err = export.SupplierAnalysis(h.reportService.SupplierAnalysis(f))
	case "statement":
		file, err = export.SalesStatement(h.reportService.SalesStatement(f))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report kind: " + kind})
		return
	}
	if err != nil {
		h.logger.Error("failed to build report workbook", zap.String("report", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.writeWorkbook(c, file, fmt.Sprintf("ArzFlow_Report_%s.xlsx", kind))
}

// handleExportClientStatement handles GET /api/clients/:id/statement/export.
func (h *reportHandler) handleExportClientStatement(c *gin.Context) {
	st, err := h.reportService.ClientStatement(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	file, err := export.ClientStatement(st)
	if err != nil {
		h.logger.Error("failed to build client statement workbook",
			zap.String("client_id", st.Client.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	name := fmt.Sprintf("Client_%s_%s.xlsx", st.Client.Name, time.Now().Format("2006-01-02"))
	h.writeWorkbook(c, file, name)
}

func (h *reportHandler) writeWorkbook(c *gin.Context, file *excelize.File, filename string) {
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteTo(file, c.Writer); err != nil {
		h.logger.Error("failed to stream workbook", zap.String("filename", filename), zap.Error(err))
	}
}
