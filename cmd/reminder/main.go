package main

import (
	"context"
	"flag"
	"log"

	"tsp/supwatch/internal/domains/repo/rpproblem"
	"tsp/supwatch/internal/domains/services/svreminder"
	"tsp/supwatch/pkg/config"
	"tsp/supwatch/pkg/infra/mysql"
	"tsp/supwatch/pkg/infra/redis"
	"tsp/supwatch/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "配置文件路径")
)

// 整改提醒一次性任务（由 crontab 每日调度）
// 扫描逾期与即将逾期的问题，发布提醒到 Redis 频道
func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.Open(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to open mysql: %v", err)
	}
	defer mysql.Close(db)

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to create redis pubsub: %v", err)
	}
	defer pubsub.Close()

	reminderService := svreminder.NewReminderService(
		rpproblem.NewProblemRepository(db),
		pubsub,
		cfg.Supervision.ReminderChannel,
		cfg.Supervision.ReminderHorizonDays,
		zapLogger,
	)

	ctx := context.Background()
	reminders, err := reminderService.DispatchReminders(ctx)
	if err != nil {
		log.Fatalf("Dispatch reminders failed: %v", err)
	}

	log.Printf("Dispatched %d reminders", len(reminders))
}
