package router

import (
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/authz"
	"github.com/Lazvegas61/MyCafe-sql/internal/config"
	"github.com/Lazvegas61/MyCafe-sql/internal/handler"
	"github.com/Lazvegas61/MyCafe-sql/internal/middleware"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"
	"github.com/Lazvegas61/MyCafe-sql/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	dayRepo := repository.NewDayRepository(db)
	tableRepo := repository.NewTableRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	billiardRepo := repository.NewBilliardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	daySvc := service.NewDayService(dayRepo, invoiceRepo, ledgerRepo, dispatcher)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, tableRepo, productRepo, billiardRepo, dayRepo, ledgerRepo)
	paymentSvc := service.NewPaymentService(ledgerRepo, invoiceRepo, tableRepo, productRepo, customerRepo, billiardRepo, dayRepo, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo, invoiceRepo, ledgerRepo, dayRepo)
	reportSvc := service.NewReportService(ledgerRepo, dayRepo, customerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	dayH := handler.NewDayHandler(daySvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	customerH := handler.NewCustomerHandler(customerSvc)
	reportH := handler.NewReportHandler(reportSvc, customerSvc)
	userH := handler.NewUserHandler(authSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)
	r.GET("/v1/days/status", dayH.Status)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes: role checks come from the authz permission table so
	// the routing layer and the services can never disagree.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		days := v1.Group("/days")
		{
			days.POST("/open", middleware.Require(authz.OpOpenDay), dayH.Open)
			days.POST("/close", middleware.Require(authz.OpCloseDay), dayH.Close)
			days.GET("/current", dayH.Current)
			days.GET("", middleware.Require(authz.OpViewSnapshots), dayH.List)
			days.GET("/:id", dayH.Get)
			days.GET("/:id/snapshots", middleware.Require(authz.OpViewSnapshots), dayH.Snapshots)
		}

		tables := v1.Group("/tables")
		{
			tables.GET("", invoiceH.ListTables)
			tables.GET("/available", invoiceH.ListAvailableTables)
			tables.GET("/:id", invoiceH.GetTable)
			tables.GET("/:id/invoice", invoiceH.TableInvoice)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", middleware.Require(authz.OpCreateInvoice), invoiceH.Create)
			invoices.GET("/open", invoiceH.ListOpen)
			invoices.GET("/:id", invoiceH.Get)
			invoices.POST("/:id/lines", middleware.Require(authz.OpAddLine), invoiceH.AddLine)
			invoices.POST("/:id/close", middleware.Require(authz.OpCloseInvoice), invoiceH.Close)
			invoices.POST("/:id/cancel", middleware.Require(authz.OpCancelInvoice), invoiceH.Cancel)
			invoices.GET("/:id/payments", paymentH.InvoicePayments)
		}
		v1.DELETE("/lines/:id", middleware.Require(authz.OpRemoveLine), invoiceH.RemoveLine)

		billiard := v1.Group("/billiard")
		{
			billiard.POST("/start", middleware.Require(authz.OpStartBilliard), invoiceH.StartBilliard)
			billiard.POST("/:id/end", middleware.Require(authz.OpEndBilliard), invoiceH.EndBilliard)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", middleware.Require(authz.OpProcessPayment), paymentH.Process)
			payments.POST("/validate", paymentH.Validate)
			payments.GET("/daily", middleware.Require(authz.OpViewReports), paymentH.DailyPayments)
		}
		v1.POST("/refunds", middleware.Require(authz.OpProcessRefund), paymentH.Refund)

		customers := v1.Group("/customers")
		{
			customers.POST("", middleware.Require(authz.OpCreateCustomer), customerH.Create)
			customers.GET("/search", customerH.Search)
			customers.GET("/:id", customerH.Get)
			customers.PUT("/:id", middleware.Require(authz.OpUpdateCustomer), customerH.Update)
			customers.GET("/:id/balance", customerH.Balance)
			customers.GET("/:id/debts", customerH.Debts)
		}

		debts := v1.Group("/debts")
		{
			debts.POST("", middleware.Require(authz.OpCreateDebt), customerH.CreateDebt)
			debts.POST("/pay", middleware.Require(authz.OpPayDebt), customerH.PayDebt)
			debts.POST("/correct", middleware.Require(authz.OpCorrectDebt), customerH.CorrectDebt)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/daily-sales", middleware.Require(authz.OpViewReports), reportH.DailySales)
			reports.GET("/debtors", middleware.Require(authz.OpViewDebtors), reportH.Debtors)
			reports.GET("/debt-summary", middleware.Require(authz.OpViewDebtors), reportH.DebtSummary)
			reports.GET("/finance-transactions", middleware.Require(authz.OpViewReports), reportH.FinanceTransactions)
			reports.GET("/cash-flow", middleware.Require(authz.OpViewReports), reportH.CashFlow)
		}

		users := v1.Group("/users", middleware.Require(authz.OpManageUsers))
		{
			users.POST("", userH.Create)
			users.GET("", userH.List)
			users.PUT("/:id", userH.Update)
			users.DELETE("/:id", userH.Deactivate)
			users.PATCH("/:id/reactivate", userH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
