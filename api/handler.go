package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"arzflow/internal/ledger"
)

// ledgerHandler holds the ledger service and implements HTTP handlers
// for the mutating ledger operations and the raw entity listings.
type ledgerHandler struct {
	ledgerService *ledger.Service
	logger        *zap.Logger
	uploadDir     string
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledgerService *ledger.Service, logger *zap.Logger, uploadDir string) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
		uploadDir:     uploadDir,
	}
}

// writeLedgerError maps engine errors onto HTTP statuses. Bad references
// and invalid amounts are request errors; an insufficient balance is a
// conflict with the supplier's current state.
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrSupplierNotFound),
		errors.Is(err, ledger.ErrClientNotFound),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidUnitPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate accepts the date picker's 2006-01-02 form or RFC 3339. An
// empty string maps to the zero time, which the engine fills with now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type contactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// handleAddSupplier handles POST /api/suppliers.
func (h *ledgerHandler) handleAddSupplier(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	supplier, err := h.ledgerService.AddSupplier(req.Name, req.Phone)
	if err != nil {
		h.logger.Error("failed to add supplier", zap.Error(err), zap.String("name", req.Name))
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// handleAddClient handles POST /api/clients. The transaction form's
// quick-add shortcut uses the same endpoint.
func (h *ledgerHandler) handleAddClient(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	client, err := h.ledgerService.AddClient(req.Name, req.Phone)
	if err != nil {
		h.logger.Error("failed to add client", zap.Error(err), zap.String("name", req.Name))
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

type purchaseRequest struct {
	SupplierID    string          `json:"supplier_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PaymentMethod string          `json:"payment_method"`
	Date          string          `json:"date"`
	ImageURL      string          `json:"image_url"`
}

// handleRecordPurchase handles POST /api/purchases.
func (h *ledgerHandler) handleRecordPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	purchase, err := h.ledgerService.RecordPurchase(ledger.PurchaseInput{
		SupplierID:    req.SupplierID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
		Date:          date,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.logger.Error("failed to record purchase", zap.Error(err),
			zap.String("supplier_id", req.SupplierID))
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

type saleRequest struct {
	SupplierID    string          `json:"supplier_id" binding:"required"`
	ClientID      string          `json:"client_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PaymentMethod string          `json:"payment_method"`
	Date          string          `json:"date"`
	ImageURL      string          `json:"image_url"`
}

// handleRecordSale handles POST /api/sales.
func (h *ledgerHandler) handleRecordSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	sale, err := h.ledgerService.RecordSale(ledger.SaleInput{
		SupplierID:    req.SupplierID,
		ClientID:      req.ClientID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
		Date:          date,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.logger.Error("failed to record sale", zap.Error(err),
			zap.String("supplier_id", req.SupplierID),
			zap.String("client_id", req.ClientID))
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

type adjustmentRequest struct {
	SupplierID    string          `json:"supplier_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	PaymentMethod string          `json:"payment_method"`
	Date          string          `json:"date"`
	Notes         string          `json:"notes"`
}

// handleRecordAdjustment handles POST /api/adjustments.
func (h *ledgerHandler) handleRecordAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	entry, err := h.ledgerService.RecordAdjustment(ledger.AdjustmentInput{
		SupplierID:    req.SupplierID,
		Quantity:      req.Quantity,
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
		Date:          date,
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.Error("failed to record adjustment", zap.Error(err),
			zap.String("supplier_id", req.SupplierID))
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// handleListSuppliers handles GET /api/suppliers.
func (h *ledgerHandler) handleListSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Suppliers())
}

// handleListClients handles GET /api/clients.
func (h *ledgerHandler) handleListClients(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Clients())
}

// handleListPurchases handles GET /api/purchases.
func (h *ledgerHandler) handleListPurchases(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Purchases())
}

// handleListSales handles GET /api/sales.
func (h *ledgerHandler) handleListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Sales())
}

// handleGetLedger handles GET /api/ledger, optionally restricted to one
// supplier with ?supplier_id=.
func (h *ledgerHandler) handleGetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Ledger(c.Query("supplier_id")))
}

// handleListAuditLogs handles GET /api/audit.
func (h *ledgerHandler) handleListAuditLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.AuditLogs())
}

// handleUpload handles POST /api/upload. The stored file's URL is an
// opaque reference the ledger keeps on transactions unchanged.
func (h *ledgerHandler) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Error("failed to save upload", zap.Error(err), zap.String("dst", dst))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + name})
}
