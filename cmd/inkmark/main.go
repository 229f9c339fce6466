package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/inkmark/inkmark/internal/config"
	"github.com/inkmark/inkmark/internal/filestore"
	"github.com/inkmark/inkmark/internal/handler"
	"github.com/inkmark/inkmark/internal/middleware"
	"github.com/inkmark/inkmark/internal/repo"
	"github.com/inkmark/inkmark/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "inkmark",
		Short: "inkmark document signing server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run inkmark server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(db)
	docRepo := repo.NewDocumentRepo(db)
	grantRepo := repo.NewGrantRepo(db)
	sigRepo := repo.NewSignatureRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	secret := []byte(cfg.JWTSecret)
	mailSender := service.NewEmailSender(cfg.Mail)
	auditService := service.NewAuditService(auditRepo, docRepo)
	authService := service.NewAuthService(userRepo, secret, time.Hour*time.Duration(cfg.JWTTTLHours))
	documentService := service.NewDocumentService(docRepo, sigRepo, grantRepo, store, auditService)
	signatureService := service.NewSignatureService(sigRepo, docRepo, grantRepo, auditService)
	shareService := service.NewShareService(docRepo, grantRepo, userRepo, auditService, mailSender, secret, time.Hour*time.Duration(cfg.ShareTTLHours), cfg.BaseURL)
	exportService := service.NewExportService(docRepo, sigRepo, grantRepo, store, auditService)

	signatureHandler := handler.NewSignatureHandler(signatureService)
	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authService),
		Documents:  handler.NewDocumentHandler(documentService),
		Signatures: signatureHandler,
		Shares:     handler.NewShareHandler(shareService),
		Export:     handler.NewExportHandler(exportService),
		Audit:      handler.NewAuditHandler(auditService),
		Public:     handler.NewPublicHandler(shareService, documentService, signatureHandler, exportService),
		JWTSecret:  secret,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
