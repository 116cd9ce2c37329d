package main

import (
	"time"

	"app/internal/cart"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/notify"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くても環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := config.GetLogger()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ProductModel{},
		&model.Product{},
		&model.Store{},
		&model.Order{},
		&model.OrderStore{},
		&model.OrderProduct{},
		&model.OrderStoreProduct{},
		&model.EmailRecord{},
		&model.Photo{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	modelRepo := infraRepo.NewProductModelGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderProductRepo := infraRepo.NewOrderProductGormRepository(gormDB)
	emailRepo := infraRepo.NewEmailGormRepository(gormDB)
	photoRepo := infraRepo.NewPhotoGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	sessions := cart.NewSessionStore()

	//bcrypt（登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//写真ストレージ。GCS_BUCKET未設定ならnilのままで、写真APIは503を返す
	var photoStorage usecase.PhotoStorage
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSPhotoStorage()
		if err != nil {
			panic(err)
		}
		photoStorage = gcs
	}

	//外部サービスクライアント
	var generator usecase.BodyGenerator
	if cfg.GenerationURL != "" {
		generator = notify.NewHTTPGenerationClient(cfg.GenerationURL)
	}
	mailer := notify.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo)
	storeUC := usecase.NewStoreUsecase(storeRepo)
	cartUC := usecase.NewCartUsecase(sessions, productRepo, storeRepo)
	orderUC := usecase.NewOrderUsecase(txManager, sessions, orderRepo, storeRepo, productRepo, idGen, clock)
	catalogueUC := usecase.NewCatalogueUsecase(productRepo, modelRepo)
	emailUC := usecase.NewEmailUsecase(emailRepo, orderRepo, orderProductRepo, generator, mailer, clock)
	photoUC := usecase.NewPhotoUsecase(photoRepo, orderRepo, photoStorage, idGen)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC),
		Product:   handler.NewProductHandler(productUC),
		Store:     handler.NewStoreHandler(storeUC),
		Cart:      handler.NewCartHandler(cartUC),
		Order:     handler.NewOrderHandler(orderUC),
		Catalogue: handler.NewCatalogueHandler(catalogueUC),
		Email:     handler.NewEmailHandler(emailUC),
		Photo:     handler.NewPhotoHandler(photoUC),
	}

	//Server起動
	logger.WithField("port", cfg.Port).Info("server starting")
	if err := server.Start(cfg, handlers); err != nil {
		panic(err)
	}
}
