package routes

import (
	"context"
	"os"

	_ "settlement_service/docs" // This will be auto-generated
	"settlement_service/internal/adapter/http/handlers"
	repository2 "settlement_service/internal/adapter/persistence/repository"
	"settlement_service/internal/infrastructure/config"
	"settlement_service/internal/infrastructure/database"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/infrastructure/notifications"
	"settlement_service/internal/infrastructure/payments"
	"settlement_service/internal/usecase"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var router = gin.New()

// Run will start the server
func Run() {
	logger.Initialize(os.Getenv("APP_ENV"))
	defer func() { _ = logger.Log.Sync() }()

	ctx := context.Background()
	awsCfg, err := database.NewAWSConfigFromEnv(ctx)
	if err != nil {
		logger.Log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	var secrets config.SecretGetter
	if os.Getenv("GATEWAY_SECRETS_ID") != "" {
		secrets = config.NewSecretsManagerClient(awsCfg)
	}
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	sink, closeSink := newNotificationSink(cfg.Notify, awsCfg)
	defer closeSink()

	getRoutes(cfg, database.ConnectDynamoDB(awsCfg), sink)

	logger.Log.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("gateway", cfg.Gateway.Provider),
		zap.String("notify", cfg.Notify.Transport),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Failed to startup the application", zap.Error(err))
	}
}

func getRoutes(cfg config.Config, ddb repository2.DynamoAPI, sink interfaces.INotificationSink) {
	transactionRepo := repository2.NewTransactionDynamoRepository(ddb)
	orderRepo := repository2.NewOrderDynamoRepository(ddb)
	cardRepo := repository2.NewCardTokenDynamoRepository(ddb)

	gateway, verifier := newGateway(cfg.Gateway)

	opts := usecase.DefaultSettlementOptions()
	opts.CallbackURL = cfg.CallbackURL
	opts.GatewayTimeout = cfg.Gateway.Timeout
	opts.RetrievePolicy.MaxAttempts = cfg.RetrieveMaxAttempts
	opts.RetrievePolicy.InitialBackoff = cfg.RetrieveBackoff

	cardVault := usecase.NewCardVault(cardRepo)
	settlementUseCase := usecase.NewSettlementUseCase(
		usecase.NewTransactionLedger(transactionRepo),
		cardVault,
		usecase.NewOrderMaterializer(orderRepo),
		gateway,
		verifier,
		sink,
		opts,
	)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, handlers.NewSettlementHandler(settlementUseCase))
	addCardRoutes(v1, handlers.NewCardHandler(cardVault))
}

// newGateway builds the provider adapter and the matching callback verifier.
// A gateway that cannot be built is left nil: checkouts then fail with a
// configuration error instead of the process refusing to start.
func newGateway(cfg config.GatewayConfig) (interfaces.IPaymentGateway, interfaces.ICallbackVerifier) {
	switch cfg.Provider {
	case config.ProviderMock:
		return payments.NewMockGateway(), payments.NewIyzicoCallbackVerifier(cfg.WebhookSecret)

	case config.ProviderMercadoPago:
		verifier := payments.NewMercadoPagoCallbackVerifier(cfg.WebhookSecret)
		gw, err := payments.NewMercadoPagoGateway(cfg.APIKey)
		if err != nil {
			logger.Log.Error("Mercado Pago gateway not configured", zap.Error(err))
			return nil, verifier
		}
		return gw, verifier

	default:
		secret := cfg.WebhookSecret
		if secret == "" {
			secret = cfg.SecretKey
		}
		verifier := payments.NewIyzicoCallbackVerifier(secret)

		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = payments.IyzicoSandboxURL
			if cfg.Environment == "production" {
				baseURL = payments.IyzicoProductionURL
			}
		}
		gw, err := payments.NewIyzicoGateway(payments.IyzicoConfig{
			APIKey:    cfg.APIKey,
			SecretKey: cfg.SecretKey,
			BaseURL:   baseURL,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			logger.Log.Error("iyzico gateway not configured", zap.Error(err))
			return nil, verifier
		}
		return gw, verifier
	}
}

func newNotificationSink(cfg config.NotifyConfig, awsCfg aws.Config) (interfaces.INotificationSink, func()) {
	switch cfg.Transport {
	case config.TransportSNS:
		return notifications.NewSNSSink(awsCfg, cfg.TopicARN), func() {}
	case config.TransportKafka:
		sink := notifications.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		return sink, func() {
			if err := sink.Close(); err != nil {
				logger.Log.Warn("kafka writer close failed", zap.Error(err))
			}
		}
	default:
		return notifications.LogSink{}, func() {}
	}
}

func setMiddlewares() {
	router.Use(logger.RequestLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("Recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatus(500)
	}))
}
