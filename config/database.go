// config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := App.DB.DSN
	if dsn == "" {
		dsn = os.Getenv("DB_URL")
	}
	if dsn == "" {
		slog.Error("Kritik hata: veritabanı DSN yapılandırılmamış (database.dsn veya DB_URL).")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("Veritabanı bağlantısı kurulamadı", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Veritabanı bağlantısı başarılı")
}
