package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/routes"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "yapılandırma dosyası yolu (boşsa ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Yapılandırma yüklenemedi", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.ConnectDB()
	config.ConnectRedis()

	if err := autoMigrate(); err != nil {
		slog.Error("Veritabanı şeması güncellenemedi", "error", err)
		os.Exit(1)
	}

	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.Default()
	routes.SetupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	slog.Info("Sunucu dinlemede", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("Sunucu durdu", "error", err)
		os.Exit(1)
	}
}

func autoMigrate() error {
	return config.DB.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.TuitionFee{},
		&models.Student{},
		&models.Discount{},
		&models.Installment{},
		&models.ArchivedInstallment{},
		&models.PaymentForm{},
		&models.PaymentInstallment{},
		&models.EnrollmentDraft{},
	)
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.DebugMode
	}
}
