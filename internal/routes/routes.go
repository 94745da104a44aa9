package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/config"
	paymentDomain "github.com/BruksfildServices01/barber-admin/internal/domain/payment"
	"github.com/BruksfildServices01/barber-admin/internal/handlers"
	"github.com/BruksfildServices01/barber-admin/internal/infra/imagestore"
	infraRepo "github.com/BruksfildServices01/barber-admin/internal/infra/repository"
	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
	"github.com/BruksfildServices01/barber-admin/internal/infra/whatsapp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-admin/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/barber-admin/internal/usecase/auth"
	ucBooking "github.com/BruksfildServices01/barber-admin/internal/usecase/booking"
	ucCashRegister "github.com/BruksfildServices01/barber-admin/internal/usecase/cashregister"
	ucCatalog "github.com/BruksfildServices01/barber-admin/internal/usecase/catalog"
	ucCommission "github.com/BruksfildServices01/barber-admin/internal/usecase/commission"
	ucFinance "github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
	ucPayment "github.com/BruksfildServices01/barber-admin/internal/usecase/payment"
	ucReport "github.com/BruksfildServices01/barber-admin/internal/usecase/report"
	ucSubscription "github.com/BruksfildServices01/barber-admin/internal/usecase/subscription"
)

// Deps are the process-wide singletons built in cmd/api. Gateway and
// Images are nil when their integration is not configured.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *slog.Logger
	Loc      *time.Location
	Audit    *audit.Dispatcher
	Sessions session.Store
	Gateway  paymentDomain.Gateway
	Sender   whatsapp.Sender
	Images   imagestore.Store
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg, log, loc := d.DB, d.Config, d.Log, d.Loc

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, loc, d.Audit)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(db, loc, d.Audit, log)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, loc, d.Audit, log)
	overrideTotalUC := ucAppointment.NewOverrideTotal(appointmentRepo, d.Audit, log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, loc)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	staffLoginUC := ucAuth.NewStaffLogin(db, d.Sessions)
	barberLoginUC := ucAuth.NewBarberLogin(db, cfg.JWTSecret)

	createPlanUC := ucSubscription.NewCreatePlan(db, d.Audit)
	createSubscriptionUC := ucSubscription.NewCreateSubscription(db, loc, d.Audit)
	cancelSubscriptionUC := ucSubscription.NewCancelSubscription(db, loc, d.Audit)

	payCommissionUC := ucCommission.NewPayCommission(db, loc, d.Audit)

	sweeper := ucFinance.NewSweeper(db, loc, log)
	reconciler := ucFinance.NewReconciler(db, loc, d.Audit, log)
	payAccountsUC := ucFinance.NewPayAccounts(db, loc, d.Audit)

	register := ucCashRegister.NewRegister(db, loc, d.Audit)

	requestBookingUC := ucBooking.NewRequestBooking(db, loc, d.Audit)
	confirmBookingUC := ucBooking.NewConfirmBooking(db, loc, createAppointmentUC, d.Sender, d.Audit, log)
	rejectBookingUC := ucBooking.NewRejectBooking(db, d.Audit)

	createLinkUC := ucPayment.NewCreateLink(db, d.Gateway, d.Audit, log)
	webhookUC := ucPayment.NewHandleNotification(db, d.Gateway, payAccountsUC, log)

	uploadImageUC := ucCatalog.NewUploadProductImage(db, d.Images, d.Audit, log)
	summaryUC := ucReport.NewGetSummary(db, loc)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(staffLoginUC, barberLoginUC, cfg.SessionTTL, cfg.CookieSecure, log)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db, log)

	clientHandler := handlers.NewClientHandler(db, d.Audit, log)
	barberHandler := handlers.NewBarberHandler(db, d.Audit, log)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, log)
	catalogHandler := handlers.NewCatalogHandler(db, uploadImageUC, d.Audit, log)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		db,
		loc,
		createPlanUC,
		createSubscriptionUC,
		cancelSubscriptionUC,
		d.Audit,
		log,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		loc,
		createAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		overrideTotalUC,
		listAppointmentsUC,
		availabilityUC,
		log,
	)

	commissionHandler := handlers.NewCommissionHandler(db, loc, payCommissionUC, log)
	financeHandler := handlers.NewFinanceHandler(db, loc, sweeper, reconciler, payAccountsUC, d.Audit, log)
	cashRegisterHandler := handlers.NewCashRegisterHandler(db, register, log)
	bookingHandler := handlers.NewBookingHandler(db, confirmBookingUC, rejectBookingUC, log)
	paymentHandler := handlers.NewPaymentHandler(db, createLinkUC, webhookUC, log)
	reportHandler := handlers.NewReportHandler(summaryUC, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc, log)

	publicHandler := handlers.NewPublicHandler(db, loc, availabilityUC, requestBookingUC, log)
	internalHandler := handlers.NewInternalHandler(d.Sender, log)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/shop", publicHandler.Shop)
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/bookings", publicHandler.RequestBooking)
		}

		api.POST("/webhooks/mercadopago", paymentHandler.Webhook)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/barber/auth/login", authHandler.BarberLogin)

		// ------------------------------
		// 📱 APP DO BARBEIRO (JWT)
		// ------------------------------
		barberApp := api.Group("/barber/me")
		barberApp.Use(middleware.BarberAuth(cfg.JWTSecret))
		{
			barberApp.GET("", meHandler.GetBarberMe)

			barberApp.GET("/working-hours", workingHoursHandler.Get)
			barberApp.PUT("/working-hours", workingHoursHandler.Update)

			barberApp.GET("/availability", appointmentHandler.Availability)
			barberApp.POST("/appointments", appointmentHandler.Create)
			barberApp.GET("/appointments", appointmentHandler.ListByDate)
			barberApp.GET("/appointments/month", appointmentHandler.ListByMonth)
			barberApp.GET("/appointments/:id", appointmentHandler.Get)
			barberApp.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			barberApp.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			barberApp.GET("/commissions", commissionHandler.List)
		}

		// ------------------------------
		// 🔐 DASHBOARD (SESSÃO)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.SessionAuth(d.Sessions, log))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/barbershop", barbershopHandler.Get)
			secured.PATCH("/barbershop", adminOnly, barbershopHandler.Update)

			// CLIENTS
			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PUT("/clients/:id", clientHandler.Update)

			// BARBERS
			secured.GET("/barbers", barberHandler.List)
			secured.POST("/barbers", adminOnly, barberHandler.Create)
			secured.PUT("/barbers/:id", adminOnly, barberHandler.Update)
			secured.GET("/barbers/:id/commissions", barberHandler.ListCommissionOverrides)
			secured.PUT("/barbers/:id/commissions/:service_id", adminOnly, barberHandler.SetCommissionOverride)
			secured.DELETE("/barbers/:id/commissions/:service_id", adminOnly, barberHandler.DeleteCommissionOverride)
			secured.GET("/barbers/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/barbers/:id/working-hours", workingHoursHandler.Update)

			// CATALOG
			secured.GET("/services", catalogHandler.ListServices)
			secured.POST("/services", catalogHandler.CreateService)
			secured.PUT("/services/:id", catalogHandler.UpdateService)
			secured.GET("/products", catalogHandler.ListProducts)
			secured.POST("/products", catalogHandler.CreateProduct)
			secured.PUT("/products/:id", catalogHandler.UpdateProduct)
			secured.POST("/products/:id/image", catalogHandler.UploadImage)

			// SUBSCRIPTIONS
			secured.GET("/subscription-plans", subscriptionHandler.ListPlans)
			secured.POST("/subscription-plans", subscriptionHandler.CreatePlan)
			secured.PATCH("/subscription-plans/:id/deactivate", subscriptionHandler.DeactivatePlan)
			secured.GET("/subscriptions", subscriptionHandler.List)
			secured.POST("/subscriptions", subscriptionHandler.Create)
			secured.GET("/subscriptions/:id", subscriptionHandler.Get)
			secured.PATCH("/subscriptions/:id/cancel", subscriptionHandler.Cancel)

			// APPOINTMENTS
			secured.GET("/availability", appointmentHandler.Availability)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/total", adminOnly, appointmentHandler.OverrideTotal)

			// COMMISSIONS
			secured.GET("/commissions", commissionHandler.List)
			secured.PATCH("/commissions/:id/pay", adminOnly, commissionHandler.Pay)

			// FINANCE
			secured.GET("/accounts-receivable", financeHandler.ListReceivables)
			secured.POST("/accounts-receivable", financeHandler.CreateReceivable)
			secured.PATCH("/accounts-receivable/:id/pay", financeHandler.PayReceivable)
			secured.POST("/accounts-receivable/reconcile", adminOnly, financeHandler.Reconcile)
			secured.POST("/accounts-receivable/dedupe", adminOnly, financeHandler.Dedupe)
			secured.GET("/accounts-receivable/:id/payment-links", paymentHandler.ListLinks)
			secured.POST("/accounts-receivable/:id/payment-links", paymentHandler.CreateLink)

			secured.GET("/accounts-payable", financeHandler.ListPayables)
			secured.POST("/accounts-payable", financeHandler.CreatePayable)
			secured.PATCH("/accounts-payable/:id/pay", financeHandler.PayPayable)

			// CASH REGISTER
			secured.GET("/cash-register/current", cashRegisterHandler.Current)
			secured.GET("/cash-register/history", cashRegisterHandler.History)
			secured.GET("/cash-register/:id", cashRegisterHandler.Get)
			secured.POST("/cash-register/open", cashRegisterHandler.Open)
			secured.POST("/cash-register/movements", cashRegisterHandler.AddMovement)
			secured.POST("/cash-register/close", cashRegisterHandler.Close)

			// ONLINE BOOKINGS
			secured.GET("/online-bookings", bookingHandler.List)
			secured.PATCH("/online-bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/online-bookings/:id/reject", bookingHandler.Reject)

			// REPORTS / AUDIT
			secured.GET("/reports/summary", reportHandler.Summary)
			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}

	// ======================================================
	// 🔒 INTERNO (SERVER-TO-SERVER)
	// ======================================================
	internal := r.Group("/internal")
	internal.Use(middleware.InternalSecret(cfg.InternalSecret))
	{
		internal.POST("/whatsapp/send", internalHandler.SendWhatsApp)
	}
}
