package wallet_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"leadflow/internal/api/controllers"
	"leadflow/internal/repositories"
	"leadflow/internal/services"
)

var Module = fx.Provide(
	provideWalletRepository,
	provideTransactionRepository,
	provideWalletService,
	provideWalletController,
)

func provideWalletRepository(db *gorm.DB) repositories.WalletRepository {
	return repositories.NewWalletRepository(db)
}

func provideTransactionRepository(db *gorm.DB) repositories.TransactionRepository {
	return repositories.NewTransactionRepository(db)
}

func provideWalletService(walletRepo repositories.WalletRepository, txnRepo repositories.TransactionRepository) services.WalletService {
	return services.NewWalletService(walletRepo, txnRepo)
}

func provideWalletController(walletService services.WalletService) *controllers.WalletController {
	return controllers.NewWalletController(walletService)
}
