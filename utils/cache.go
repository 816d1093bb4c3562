// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"carrent/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// SchedulerRedisClient is the client for the redis database backing the task scheduler.
var SchedulerRedisClient *redis.Client

// InitSchedulerRedis connects to the scheduler's redis database and verifies it responds.
func InitSchedulerRedis() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSchedulerDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (Scheduler): %w", err)
	}
	SchedulerRedisClient = client
	return nil
}

// SchedulerRedisOpt returns the asynq connection options for the same database.
func SchedulerRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSchedulerDB,
	}
}
