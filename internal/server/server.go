package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/auth"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/booking"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/club"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/config"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/email"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/payment"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/redemption"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/subscription"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/user"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/wallet"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewPostgresRepository(db)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userSvc)

	clubRepo := club.NewRepository(db)
	clubHandler := club.NewHandler(db)

	subSvc := subscription.NewService(subscription.NewRepository(db))
	subHandler := subscription.NewHandler(subSvc)

	tokenRepo := tokens.NewRepository(db)
	tokenSvc := tokens.NewService(tokenRepo, subSvc)
	tokenHandler := tokens.NewHandler(tokenSvc)

	walletRepo := wallet.NewPostgresRepository(db)
	walletHandler := wallet.NewHandler(wallet.NewService(walletRepo))

	bookingRepo := booking.NewRepository(db, tokenRepo, walletRepo)
	bookingSvc := booking.NewService(
		bookingRepo,
		clubRepo,
		tokenSvc,
		userRepo,
		emailService,
		cfg.TokenRate,
		cfg.SlotGranularityMin,
		cfg.DurationStepMin,
	)
	bookingHandler := booking.NewHandler(bookingSvc)

	redemptionRepo := redemption.NewRepository(db, tokenRepo)
	redemptionSvc := redemption.NewService(redemptionRepo, tokenSvc, userRepo, emailService, cfg.TokenRate)
	redemptionHandler := redemption.NewHandler(redemptionSvc)

	paymentHandler := payment.NewHandler(cfg.TokenRate)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	adminMiddleware := auth.RequireRole("admin")

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/clubs", clubHandler.ListClubs)
		protected.GET("/clubs/:clubID/resources", clubHandler.ListResources)
		protected.GET("/clubs/:clubID/hours", clubHandler.ListOperatingWindows)
		protected.GET("/clubs/:clubID/resources/:resourceID/slots", bookingHandler.GetAvailableSlots)

		protected.POST("/bookings", bookingHandler.CreateReservation)
		protected.POST("/bookings/:id/confirm", bookingHandler.ConfirmReservation)
		protected.POST("/bookings/:id/cancel", bookingHandler.CancelReservation)
		protected.GET("/bookings/my", bookingHandler.GetMyReservations)
		protected.GET("/clubs/:clubID/bookings", adminMiddleware, bookingHandler.GetClubReservations)

		protected.GET("/clubs/:clubID/token-pool", tokenHandler.GetTokenPool)
		protected.POST("/clubs/:clubID/token-pool/purchase", adminMiddleware, tokenHandler.PurchaseTokens)
		protected.GET("/clubs/:clubID/token-pool/transactions", tokenHandler.ListTokenTransactions)

		protected.GET("/payments/quote", paymentHandler.QuotePayment)

		protected.POST("/redemptions", redemptionHandler.RedeemTokens)
		protected.GET("/redemptions/quote", redemptionHandler.QuoteRedemption)
		protected.GET("/clubs/:clubID/redemptions", redemptionHandler.ListRedemptions)

		protected.GET("/wallet", walletHandler.GetWallet)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.GET("/subscriptions/plans", subHandler.ListPlans)
		protected.GET("/clubs/:clubID/subscription", subHandler.GetCurrentTier)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/clubs", clubHandler.CreateClub)
		admin.POST("/clubs/:clubID/resources", clubHandler.CreateResource)
		admin.POST("/resources/:resourceID/active", clubHandler.SetResourceActive)
		admin.POST("/clubs/:clubID/hours", clubHandler.SetOperatingWindow)

		admin.POST("/clubs/:clubID/subscription", subHandler.Subscribe)
		admin.GET("/clubs/:clubID/subscriptions", subHandler.ListSubscriptions)
		admin.DELETE("/subscriptions/:id", subHandler.CancelSubscription)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
