package payment_fx

import (
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"

	"leadflow/internal/api/controllers"
	"leadflow/internal/gateway"
	"leadflow/internal/repositories"
	"leadflow/internal/services"
)

var Module = fx.Provide(
	provideGateway,
	provideRechargeService,
	providePaymentController,
)

func provideGateway() gateway.PaymentGateway {
	gw, err := gateway.NewRazorpayGateway(gateway.RazorpayConfig{
		KeyID:     os.Getenv("RZP_KEY_ID"),
		KeySecret: os.Getenv("RZP_KEY_SECRET"),
		BaseURL:   os.Getenv("RZP_BASE_URL"),
	})
	if err != nil {
		log.Fatalf("Error initializing payment gateway: %v", err)
	}
	return gw
}

func provideRechargeService(gw gateway.PaymentGateway, discounts services.DiscountService, txnRepo repositories.TransactionRepository) services.RechargeService {
	minAmount, _ := strconv.ParseInt(os.Getenv("RECHARGE_MIN_MINOR"), 10, 64)

	return services.NewRechargeService(gw, discounts, txnRepo, services.RechargeConfig{
		MinAmountMinor: minAmount,
		PendingTTL:     24 * time.Hour,
	})
}

func providePaymentController(rechargeService services.RechargeService) *controllers.PaymentController {
	return controllers.NewPaymentController(rechargeService)
}
