package promo_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"leadflow/internal/api/controllers"
	"leadflow/internal/repositories"
	"leadflow/internal/services"
)

var Module = fx.Provide(
	provideDiscountCodeRepository,
	provideDiscountService,
	provideDiscountController,
	provideGiftCardRepository,
	provideGiftCardService,
	provideGiftCardController,
)

func provideDiscountCodeRepository(db *gorm.DB) repositories.DiscountCodeRepository {
	return repositories.NewDiscountCodeRepository(db)
}

func provideDiscountService(promoRepo repositories.DiscountCodeRepository) services.DiscountService {
	return services.NewDiscountService(promoRepo)
}

func provideDiscountController(discountService services.DiscountService) *controllers.DiscountController {
	return controllers.NewDiscountController(discountService)
}

func provideGiftCardRepository(db *gorm.DB) repositories.GiftCardRepository {
	return repositories.NewGiftCardRepository(db)
}

func provideGiftCardService(cardRepo repositories.GiftCardRepository, wallet services.WalletService) services.GiftCardService {
	return services.NewGiftCardService(cardRepo, wallet)
}

func provideGiftCardController(giftCardService services.GiftCardService) *controllers.GiftCardController {
	return controllers.NewGiftCardController(giftCardService)
}
