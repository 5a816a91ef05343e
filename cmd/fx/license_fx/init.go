package license_fx

import (
	"os"
	"strconv"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"leadflow/internal/api/controllers"
	"leadflow/internal/repositories"
	"leadflow/internal/services"
	"leadflow/pkg/notify"
)

var Module = fx.Provide(
	provideCompanyRepository,
	provideFeatureUnlockRepository,
	provideFeatureService,
	provideFeatureController,
	provideSubscriptionService,
	provideSubscriptionController,
)

func provideCompanyRepository(db *gorm.DB) repositories.CompanyRepository {
	return repositories.NewCompanyRepository(db)
}

func provideFeatureUnlockRepository(db *gorm.DB) repositories.FeatureUnlockRepository {
	return repositories.NewFeatureUnlockRepository(db)
}

func provideFeatureService(unlockRepo repositories.FeatureUnlockRepository, wallet services.WalletService) services.FeatureService {
	return services.NewFeatureService(unlockRepo, wallet)
}

func provideFeatureController(featureService services.FeatureService) *controllers.FeatureController {
	return controllers.NewFeatureController(featureService)
}

func provideSubscriptionService(companyRepo repositories.CompanyRepository, wallet services.WalletService, notifier notify.Notifier) services.SubscriptionService {
	seatPrice, _ := strconv.ParseInt(os.Getenv("SEAT_PRICE_MINOR"), 10, 64)

	return services.NewSubscriptionService(companyRepo, wallet, notifier, services.SubscriptionConfig{
		SeatPriceMinor: seatPrice,
	})
}

func provideSubscriptionController(subscriptionService services.SubscriptionService, rechargeService services.RechargeService) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService, rechargeService)
}
