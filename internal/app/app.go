// Package app wires repositories, services and handlers for the API and the
// one-shot jobs.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatedesk/internal/config"
	"estatedesk/internal/domain/booking"
	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/demanddraft"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/milestone"
	"estatedesk/internal/domain/notification"
	"estatedesk/internal/domain/payment"
	"estatedesk/internal/domain/paymentplan"
	"estatedesk/internal/middleware"
	"estatedesk/internal/pkg/distlock"
	"estatedesk/internal/pkg/jwt"
)

type App struct {
	cfg *config.Config
	db  *gorm.DB
	log logrus.FieldLogger
	jwt *jwt.Service

	Dispatcher    *notification.Dispatcher
	Notifications *notification.Service
	Inventory     *inventory.Service
	Construction  *construction.Service
	Plans         *paymentplan.Service
	Bookings      *booking.Service
	Engine        *milestone.Engine
	DemandDrafts  *demanddraft.Service

	customers *customer.Repository
	payments  *payment.Repository
}

// New builds every service over db. locker may be nil.
func New(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger, locker *distlock.Locker) *App {
	inventoryRepo := inventory.NewRepository(db)
	customerRepo := customer.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	planRepo := paymentplan.NewRepository(db)
	progressRepo := construction.NewRepository(db)

	dispatcher := notification.NewDispatcher(log, cfg.NotificationTimeout)
	notifications := notification.NewService(
		notification.NewRepository(db),
		notification.NewLogSender(log),
		cfg.AdminEmail,
		log,
	)

	plans := paymentplan.NewService(db, planRepo, paymentplan.NewTemplateRepository(db), log)
	engine := milestone.NewEngine(planRepo, progressRepo, log)

	bookings := booking.NewService(db, booking.Deps{
		Bookings:   booking.NewRepository(db),
		Inventory:  inventoryRepo,
		Customers:  customerRepo,
		Payments:   paymentRepo,
		Plans:      planRepo,
		Generator:  plans,
		Mailer:     notifications,
		Dispatcher: dispatcher,
	}, log)

	drafts := demanddraft.NewService(db, demanddraft.Deps{
		Drafts:     demanddraft.NewRepository(db),
		Templates:  demanddraft.NewTemplateRepository(db),
		Plans:      planRepo,
		PlanSvc:    plans,
		Progress:   progressRepo,
		Schedules:  paymentRepo,
		Customers:  customerRepo,
		Inventory:  inventoryRepo,
		Engine:     engine,
		Mailer:     notifications,
		Dispatcher: dispatcher,
		Locker:     locker,
	}, demanddraft.Options{
		Bank: demanddraft.BankDetails{
			BankName:      cfg.Bank.BankName,
			AccountName:   cfg.Bank.AccountName,
			AccountNumber: cfg.Bank.AccountNumber,
			IFSC:          cfg.Bank.IFSC,
			Branch:        cfg.Bank.Branch,
		},
		DueDays: cfg.DemandDraftDueDays,
		Log:     log,
	})

	return &App{
		cfg:           cfg,
		db:            db,
		log:           log,
		jwt:           jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		Dispatcher:    dispatcher,
		Notifications: notifications,
		Inventory:     inventory.NewService(db, inventoryRepo),
		Construction:  construction.NewService(progressRepo, inventoryRepo),
		Plans:         plans,
		Bookings:      bookings,
		Engine:        engine,
		DemandDrafts:  drafts,
		customers:     customerRepo,
		payments:      paymentRepo,
	}
}

func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(a.log), middleware.CORS(a.cfg.CORSAllowedOrigins))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(a.jwt))

	reviewers := v1.Group("")
	reviewers.Use(middleware.Reviewers())

	inventory.NewHandler(a.Inventory).RegisterRoutes(v1)
	customer.NewHandler(a.customers).RegisterRoutes(v1)
	construction.NewHandler(a.Construction).RegisterRoutes(v1)
	booking.NewHandler(a.Bookings).RegisterRoutes(v1)
	payment.NewHandler(a.payments).RegisterRoutes(v1)
	paymentplan.NewHandler(a.Plans).RegisterRoutes(v1)
	milestone.NewHandler(a.Engine).RegisterRoutes(v1)
	demanddraft.NewHandler(a.DemandDrafts).RegisterRoutes(v1, reviewers)
	notification.NewHandler(a.Notifications).RegisterRoutes(v1)

	return r
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
