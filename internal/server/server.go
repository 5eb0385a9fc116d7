package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/CeliaIneza/celebstash-back/docs"
	"github.com/CeliaIneza/celebstash-back/internal/auth"
	"github.com/CeliaIneza/celebstash-back/internal/bid"
	"github.com/CeliaIneza/celebstash-back/internal/cart"
	"github.com/CeliaIneza/celebstash-back/internal/config"
	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/post"
	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/user"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

type Handlers struct {
	Users    *user.Handler
	Products *product.Handler
	Bids     *bid.Handler
	Wallet   *wallet.Handler
	Cart     *cart.Handler
	Posts    *post.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers) *Server {
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(Metrics())
	router.Use(CORS())
	router.Use(RateLimit(20, 40))

	registerRoutes(router, cfg, h)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, cfg *config.Config, h Handlers) {
	router.GET("/health", Health)
	router.GET("/metrics", PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Users.Register)
		authGroup.POST("/verify-otp", h.Users.VerifyOTP)
		authGroup.POST("/resend-otp", h.Users.ResendOTP)
		authGroup.POST("/login", h.Users.Login)
		authGroup.POST("/refresh", h.Users.Refresh)
	}

	// Browsing is open; anything that writes or is personal sits behind auth.
	v1.GET("/products", h.Products.List)
	v1.GET("/products/:id", h.Products.Get)
	v1.GET("/auctions", h.Bids.ListAuctions)
	v1.GET("/posts", h.Posts.List)
	v1.GET("/posts/:id", h.Posts.Get)

	protected := v1.Group("", auth.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/me", h.Users.GetMe)
		protected.GET("/me/products", h.Products.ListMine)

		protected.POST("/products", h.Products.Create)
		protected.POST("/products/:id/promote", h.Products.Promote)
		protected.POST("/products/:id/purchase", h.Products.Purchase)

		protected.POST("/products/:id/bid", h.Bids.PlaceBid)
		protected.GET("/products/:id/bid", h.Bids.GetBidDetails)

		protected.GET("/wallet", h.Wallet.GetBalance)
		protected.POST("/wallet/topup", h.Wallet.TopUp)
		protected.GET("/wallet/transactions", h.Wallet.ListTransactions)

		protected.POST("/cart", h.Cart.AddItem)
		protected.GET("/cart", h.Cart.GetCart)
		protected.DELETE("/cart", h.Cart.Clear)
		protected.POST("/cart/checkout", h.Cart.Checkout)
		protected.PATCH("/cart/:productId", h.Cart.UpdateQuantity)
		protected.DELETE("/cart/:productId", h.Cart.RemoveItem)

		protected.POST("/posts", h.Posts.Create)
		protected.DELETE("/posts/:id", h.Posts.Delete)
		protected.POST("/likes", h.Posts.Like)
		protected.DELETE("/likes", h.Posts.Unlike)

		admin := protected.Group("/admin", auth.RequireRole("admin"))
		{
			admin.GET("/products", h.Products.ListAll)
			admin.PATCH("/products/:id/status", h.Products.UpdateStatus)
		}
	}
}

func (s *Server) Start() error {
	logger.Info("server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
