// config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

func ConnectRedis() {
	addr := App.Redis.Addr
	if addr == "" {
		slog.Warn("redis.addr yapılandırılmamış, önbellekleme devre dışı.")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("Redis'e bağlanılamadı", "error", err)
		RDB = nil // uygulama önbelleksiz çalışmaya devam eder
		return
	}

	slog.Info("Redis bağlantısı başarılı")
}
