// Package app は repository → usecase → handler の組み立てをまとめる。
// cmd/api・CLIのローカル動作・テストが同じ組み立てを使う。
package app

import (
	"time"

	"yoolivery/internal/handler"
	"yoolivery/internal/infra/kvrepo"
	"yoolivery/internal/infra/kvstore"
	infraRepo "yoolivery/internal/infra/repository"
	repo "yoolivery/internal/repository"
	"yoolivery/internal/server"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
	"yoolivery/internal/validator"

	"gorm.io/gorm"
)

type Repos struct {
	Users    repo.UserRepository
	Products repo.ProductRepository
	Tx       repo.TransactionManager
}

// PostgreSQL（GORM）
func NewGormRepos(db *gorm.DB) Repos {
	return Repos{
		Users:    infraRepo.NewUserGormRepository(db),
		Products: infraRepo.NewProductGormRepository(db),
		Tx:       infraRepo.NewTxManagerGorm(db),
	}
}

// SQLiteのキーバリュー。カタログはメモリ上の読み取り専用
func NewKVRepos(store *kvstore.Store, products repo.ProductRepository) Repos {
	return Repos{
		Users:    kvrepo.NewUserKVRepository(store),
		Products: products,
		Tx:       kvrepo.NewTxManagerKV(store, products),
	}
}

type Options struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
	Clock          usecase.Clock       // nilなら実時間
	IDs            usecase.IDGenerator // nilならUUID
}

type Usecases struct {
	Products *usecase.ProductUsecase
	Carts    *usecase.CartUsecase
	Orders   *usecase.OrderUsecase
	Register *auth.RegisterUserUsecase
	Login    *auth.LoginUsecase
	Logout   *auth.LogoutUsecase
	Profile  *auth.ProfileUsecase
}

func NewUsecases(r Repos, opt Options) Usecases {
	clock := opt.Clock
	if clock == nil {
		clock = usecase.SystemClock{}
	}
	ids := opt.IDs
	if ids == nil {
		ids = usecase.UUIDGenerator{}
	}

	issuer := auth.NewJWTIssuer(opt.JWTSecret, opt.AccessTokenTTL)
	accounts := validator.NewAccountValidator(r.Users, clock)

	return Usecases{
		Products: usecase.NewProductUsecase(r.Products),
		Carts:    usecase.NewCartUsecase(r.Tx, r.Products),
		Orders:   usecase.NewOrderUsecase(r.Tx, ids, clock),
		Register: auth.NewRegisterUserUsecase(
			r.Users,
			accounts,
			auth.NewBcryptPasswordHasher(opt.BcryptCost),
			issuer,
			ids,
			clock,
		),
		Login:   auth.NewLoginUsecase(r.Users, accounts, auth.NewBcryptPasswordVerifier(), issuer, clock),
		Logout:  auth.NewLogoutUsecase(r.Users),
		Profile: auth.NewProfileUsecase(r.Users, accounts, clock),
	}
}

func NewHandlers(u Usecases) server.Handlers {
	return server.Handlers{
		Health:  handler.NewHealthHandler(),
		Product: handler.NewProductHandler(u.Products),
		Auth:    handler.NewAuthHandler(u.Register, u.Login, u.Logout),
		User:    handler.NewUserHandler(u.Profile),
		Cart:    handler.NewCartHandler(u.Carts),
		Order:   handler.NewOrderHandler(u.Orders),
	}
}
