package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	anagraficaentity "github.com/cartotec/gestionale/internal/anagrafica/entity"
	anagraficahandler "github.com/cartotec/gestionale/internal/anagrafica/handler"
	anagraficarepo "github.com/cartotec/gestionale/internal/anagrafica/repository"
	anagraficaservice "github.com/cartotec/gestionale/internal/anagrafica/service"
	"github.com/cartotec/gestionale/internal/config"
	"github.com/cartotec/gestionale/internal/documenti"
	magazzinoentity "github.com/cartotec/gestionale/internal/magazzino/entity"
	magazzinohandler "github.com/cartotec/gestionale/internal/magazzino/handler"
	magazzinorepo "github.com/cartotec/gestionale/internal/magazzino/repository"
	magazzinoservice "github.com/cartotec/gestionale/internal/magazzino/service"
	"github.com/cartotec/gestionale/internal/middleware"
	ordinientity "github.com/cartotec/gestionale/internal/ordini/entity"
	ordinihandler "github.com/cartotec/gestionale/internal/ordini/handler"
	ordinirepo "github.com/cartotec/gestionale/internal/ordini/repository"
	ordiniservice "github.com/cartotec/gestionale/internal/ordini/service"
	"github.com/cartotec/gestionale/internal/sse"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: file .env non trovato, uso le variabili d'ambiente")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Caricamento configurazione fallito: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Inizializzazione logger fallita: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Avvio gestionale",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Connessione al database fallita", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&anagraficaentity.Cliente{},
		&anagraficaentity.Fornitore{},
		&ordinientity.OrdineAcquisto{},
		&magazzinoentity.CartoneArrivo{},
		&magazzinoentity.CartoneGiacenza{},
		&magazzinoentity.CartoneEsaurito{},
		&magazzinoentity.Fustella{},
		&magazzinoentity.MovimentoStorico{},
	); err != nil {
		zapLogger.Warn("AutoMigrate con avvisi", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis non raggiungibile, notifiche limitate a questa istanza", zap.Error(err))
	} else {
		sse.GlobalHub.SetRedis(rdb)
	}

	bridgeCtx, bridgeCancel := context.WithCancel(context.Background())
	defer bridgeCancel()
	go sse.GlobalHub.RunRedisBridge(bridgeCtx)

	// repository
	clienteRepo := anagraficarepo.NewClienteRepo(db)
	fornitoreRepo := anagraficarepo.NewFornitoreRepo(db)
	ordineRepo := ordinirepo.NewOrdineRepo(db)
	magazzinoRepo := magazzinorepo.NewRepo(db)

	// servizi
	anagraficaSvc := anagraficaservice.NewService(clienteRepo, fornitoreRepo, zapLogger)
	ordiniSvc := ordiniservice.NewService(ordineRepo, fornitoreRepo, magazzinoRepo, zapLogger)
	magazzinoSvc := magazzinoservice.NewService(magazzinoRepo, zapLogger)
	magazzinoSvc.SetOrdini(ordiniSvc)
	documentiSvc := documenti.NewService(ordineRepo, fornitoreRepo, magazzinoRepo)

	// handler
	anagraficaH := anagraficahandler.NewHandler(anagraficaSvc)
	ordiniH := ordinihandler.NewHandler(ordiniSvc)
	magazzinoH := magazzinohandler.NewHandler(magazzinoSvc)
	documentiH := documenti.NewHandler(documentiSvc)
	sseH := sse.NewHandler()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, anagraficaH, ordiniH, magazzinoH, documentiH, sseH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // le connessioni SSE restano aperte
	}

	go func() {
		zapLogger.Info("Server in ascolto", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Avvio server fallito", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Arresto del server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Arresto forzato", zap.Error(err))
	}

	zapLogger.Info("Server arrestato")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connessione al database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accesso alla connessione sql: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	anagraficaH *anagraficahandler.Handler,
	ordiniH *ordinihandler.Handler,
	magazzinoH *magazzinohandler.Handler,
	documentiH *documenti.Handler,
	sseH *sse.Handler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})

	v1 := r.Group("/api/v1", middleware.JWTAuth(cfg.JWT.Secret))

	// anagrafiche
	clienti := v1.Group("/clienti")
	{
		clienti.POST("", anagraficaH.CreateCliente)
		clienti.GET("", anagraficaH.ListClienti)
		clienti.GET("/:id", anagraficaH.GetCliente)
		clienti.PUT("/:id", anagraficaH.UpdateCliente)
		clienti.DELETE("/:id", anagraficaH.DeleteCliente)
	}
	fornitori := v1.Group("/fornitori")
	{
		fornitori.POST("", anagraficaH.CreateFornitore)
		fornitori.GET("", anagraficaH.ListFornitori)
		fornitori.GET("/:id", anagraficaH.GetFornitore)
		fornitori.PUT("/:id", anagraficaH.UpdateFornitore)
		fornitori.DELETE("/:id", anagraficaH.DeleteFornitore)
	}

	// ordini di acquisto
	ordini := v1.Group("/ordini-acquisto")
	{
		ordini.POST("", ordiniH.Create)
		ordini.GET("", ordiniH.List)
		ordini.GET("/:id", ordiniH.Get)
		ordini.PUT("/:id", ordiniH.Update)
		ordini.DELETE("/:id", ordiniH.Delete)
		ordini.PUT("/:id/stato", ordiniH.UpdateStato)
		ordini.PUT("/:id/articoli/stato", ordiniH.UpdateStatoArticolo)
	}
	v1.GET("/codici/:famiglia", ordiniH.ProssimoCodice)

	// magazzino
	magazzino := v1.Group("/magazzino")
	{
		magazzino.GET("/arrivi", magazzinoH.ListArrivi)
		magazzino.PUT("/arrivi/:codice/conferma", magazzinoH.ConfermaArrivo)
		magazzino.POST("/arrivi/:codice/ricevi", magazzinoH.SpostaInGiacenza)
		magazzino.GET("/giacenza", magazzinoH.ListGiacenze)
		magazzino.PUT("/giacenza/:codice/fogli", magazzinoH.ScaricaFogli)
		magazzino.POST("/giacenza/:codice/esaurisci", magazzinoH.Esaurisci)
		magazzino.POST("/giacenza/:codice/riporta-in-arrivo", magazzinoH.RiportaInArrivo)
		magazzino.GET("/esauriti", magazzinoH.ListEsauriti)
		magazzino.POST("/esauriti/:codice/ripristina", magazzinoH.RipristinaDaEsauriti)
		magazzino.GET("/fustelle", magazzinoH.ListFustelle)
		magazzino.GET("/fustelle/:codice", magazzinoH.GetFustella)
		magazzino.PUT("/fustelle/:codice", magazzinoH.UpdateFustella)
		magazzino.GET("/storico", magazzinoH.ListStorico)
	}

	// documenti
	docs := v1.Group("/documenti")
	{
		docs.GET("/ordini/:id", documentiH.GetOrdine)
		docs.GET("/ordini/:id/xlsx", documentiH.ExportOrdine)
		docs.GET("/giacenza/xlsx", documentiH.ExportGiacenza)
	}

	// notifiche
	v1.GET("/sse/events", sseH.Stream)
}
