package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"leadflow/cmd/fx/db_fx"
	"leadflow/cmd/fx/license_fx"
	"leadflow/cmd/fx/notifier_fx"
	"leadflow/cmd/fx/payment_fx"
	"leadflow/cmd/fx/promo_fx"
	"leadflow/cmd/fx/wallet_fx"
	"leadflow/internal/api/controllers"
	"leadflow/internal/services"
	"leadflow/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		notifier_fx.Module,
		wallet_fx.Module,
		promo_fx.Module,
		payment_fx.Module,
		license_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
		fx.Invoke(StartSweepScheduler),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

// StartSweepScheduler runs the auto-debit sweep and pending-recharge expiry on
// an interval, as a fallback for deployments without an external cron hitting
// /internal/auto-debit.
func StartSweepScheduler(lc fx.Lifecycle, subscriptions services.SubscriptionService, recharges services.RechargeService) {
	interval := time.Hour
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ticker := time.NewTicker(interval)
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
						if resp, err := subscriptions.RunSweep(sweepCtx, time.Now()); err != nil {
							log.Printf("Auto-debit sweep failed: %v", err)
						} else {
							log.Printf("Auto-debit sweep processed %d company(ies)", resp.ProcessedCount)
						}
						if _, err := recharges.ExpirePending(sweepCtx); err != nil {
							log.Printf("Pending recharge expiry failed: %v", err)
						}
						cancel()
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func ProvideRouter(
	walletController *controllers.WalletController,
	paymentController *controllers.PaymentController,
	giftCardController *controllers.GiftCardController,
	discountController *controllers.DiscountController,
	featureController *controllers.FeatureController,
	subscriptionController *controllers.SubscriptionController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, walletController, paymentController, giftCardController,
		discountController, featureController, subscriptionController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	walletController *controllers.WalletController,
	paymentController *controllers.PaymentController,
	giftCardController *controllers.GiftCardController,
	discountController *controllers.DiscountController,
	featureController *controllers.FeatureController,
	subscriptionController *controllers.SubscriptionController) {

	authed := r.Group("/", middleware.JWTAuthMiddleware())

	wallet := authed.Group("/wallet")
	wallet.GET("/balance", walletController.GetBalance)
	wallet.GET("/transactions", walletController.ListTransactions)
	wallet.POST("/recharge/initiate", paymentController.InitiateRecharge)
	wallet.POST("/recharge/verify", paymentController.VerifyRecharge)
	wallet.POST("/gift-cards/redeem", giftCardController.Redeem)

	authed.POST("/discounts/validate", discountController.Validate)
	authed.POST("/features/unlock", featureController.Unlock)
	authed.POST("/subscription/manage", subscriptionController.Manage)

	admin := authed.Group("/admin", middleware.RoleMiddleware("admin"))
	admin.POST("/gift-cards", giftCardController.Create)
	admin.POST("/wallet/credits", walletController.AdminCredit)

	cron := r.Group("/internal", middleware.ServiceKeyMiddleware())
	cron.POST("/auto-debit", subscriptionController.RunAutoDebit)
}
