package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"arzflow/config"
	"arzflow/internal/auth"
	"arzflow/internal/ledger"
	"arzflow/internal/report"
)

// InitRoutes registers all dashboard endpoints on the given Gin engine.
// It initializes the storage, services, and handlers, then binds each
// HTTP method and path to the appropriate handler function. Everything
// under /api requires a valid session token.
func InitRoutes(e *gin.Engine, cfg config.Config) error {
	logger, _ := zap.NewProduction()

	authService, err := auth.NewService(cfg.JWTSecret, cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		return err
	}

	ledgerService := ledger.NewService(ledger.NewLocalStorage(), logger, cfg.Operator)
	reportService := report.NewService(ledgerService, logger)

	ledgerHandler := NewLedgerHandler(ledgerService, logger, cfg.UploadDir)
	reportHandler := NewReportHandler(reportService, logger)
	authHandler := NewAuthHandler(authService, logger)

	e.POST("/login", authHandler.handleLogin)
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online"})
	})

	protected := e.Group("/api")
	protected.Use(AuthRequired(authService))
	{
		protected.GET("/suppliers", ledgerHandler.handleListSuppliers)
		protected.POST("/suppliers", ledgerHandler.handleAddSupplier)
		protected.GET("/clients", ledgerHandler.handleListClients)
		protected.POST("/clients", ledgerHandler.handleAddClient)

		protected.GET("/purchases", ledgerHandler.handleListPurchases)
		protected.POST("/purchases", ledgerHandler.handleRecordPurchase)
		protected.GET("/sales", ledgerHandler.handleListSales)
		protected.POST("/sales", ledgerHandler.handleRecordSale)
		protected.POST("/adjustments", ledgerHandler.handleRecordAdjustment)

		protected.GET("/ledger", ledgerHandler.handleGetLedger)
		protected.GET("/audit", ledgerHandler.handleListAuditLogs)
		protected.POST("/upload", ledgerHandler.handleUpload)

		protected.GET("/dashboard", reportHandler.handleDashboard)
		protected.GET("/reports/summary", reportHandler.handleFinancialSummary)
		protected.GET("/reports/clients", reportHandler.handleClientAnalysis)
		protected.GET("/reports/suppliers", reportHandler.handleSupplierAnalysis)
		protected.GET("/reports/statement", reportHandler.handleSalesStatement)
		protected.GET("/reports/export", reportHandler.handleExportReport)
		protected.GET("/clients/:id/statement", reportHandler.handleClientStatement)
		protected.GET("/clients/:id/statement/export", reportHandler.handleExportClientStatement)
	}

	return nil
}
