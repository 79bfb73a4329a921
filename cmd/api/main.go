package main

import (
	"context"
	"log"

	"campusanon/internal/config"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"
	"campusanon/internal/repository/redis"
	"campusanon/internal/router"
	"campusanon/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		panic(err)
	}
	if err := mysql.AutoMigrate(); err != nil {
		panic(err)
	}
	if err := mysql.SeedCommunities(); err != nil {
		panic(err)
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		panic(err)
	}
	defer redis.Close()

	jwt := pkg.NewJWTManager(cfg.AccessSecret, cfg.RefreshSecret)

	// Moderation events leave through the outbox. Without a reachable broker
	// they are still recorded and drained to the log.
	sender := service.Sender(service.LogSender)
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		producer, err := pkg.NewModerationProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("kafka producer init: %v, falling back to log sink", err)
		} else {
			defer producer.Close()
			sender = service.KafkaSender(producer)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(sender).Run(ctx)

	r := router.InitRouter(cfg, jwt)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		panic(err)
	}
}
