package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/CeliaIneza/celebstash-back/internal/auth"
	"github.com/CeliaIneza/celebstash-back/internal/bid"
	"github.com/CeliaIneza/celebstash-back/internal/cart"
	"github.com/CeliaIneza/celebstash-back/internal/config"
	"github.com/CeliaIneza/celebstash-back/internal/db"
	"github.com/CeliaIneza/celebstash-back/internal/email"
	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/post"
	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/server"
	"github.com/CeliaIneza/celebstash-back/internal/user"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

// @title           Celebstash API
// @version         1.0
// @description     Social commerce backend with wallet-funded auction bidding.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emails := email.New(cfg.EmailFrom, cfg.EmailFromName, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.RedisAddr)
	defer emails.Close()
	go emails.Start(ctx)

	otpStore := auth.NewOTPStore(cfg.RedisAddr)

	userRepo := user.NewRepository(database)
	walletRepo := wallet.NewRepository(database)
	productRepo := product.NewRepository(database)
	bidRepo := bid.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	postRepo := post.NewRepository(database)

	userService := user.NewService(userRepo, otpStore, emails, cfg.JWTSecret)
	productService := product.NewService(productRepo, walletRepo)
	bidService := bid.NewService(bidRepo, productRepo, walletRepo)
	cartService := cart.NewService(cartRepo, productRepo, walletRepo)

	sweeper := bid.NewSweeper(bidRepo, userRepo, emails, cfg.SweepInterval)
	go sweeper.Start(ctx)

	srv := server.New(cfg, server.Handlers{
		Users:    user.NewHandler(userService),
		Products: product.NewHandler(productService),
		Bids:     bid.NewHandler(bidService),
		Wallet:   wallet.NewHandler(walletRepo),
		Cart:     cart.NewHandler(cartService),
		Posts:    post.NewHandler(postRepo),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}

	logger.Info("server stopped")
}
