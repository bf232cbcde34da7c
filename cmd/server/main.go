package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/server"
	"offbytes.com/offersapi/pkg/database"
	"offbytes.com/offersapi/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	logger.Setup()

	db := database.Connect()
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.BusinessUser{},
		&entity.Post{},
		&entity.SavedOffer{},
		&entity.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient := newRedisClient()

	bootstrapAdmins(db)

	srv := server.NewServer(db, redisClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := srv.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, live notifications disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, live notifications disabled")
		return nil
	}
	return client
}

// bootstrapAdmins promotes the accounts listed in ADMIN_EMAILS. Accounts that
// have not logged in yet are picked up on a later restart.
func bootstrapAdmins(db *gorm.DB) {
	raw := os.Getenv("ADMIN_EMAILS")
	if raw == "" {
		return
	}

	for _, email := range strings.Split(raw, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}

		result := db.Model(&entity.User{}).
			Where("email = ? AND role <> ?", email, entity.RoleAdmin).
			Update("role", entity.RoleAdmin)
		if result.Error != nil {
			log.Warn().Err(result.Error).Str("email", email).Msg("failed to promote admin")
			continue
		}
		if result.RowsAffected > 0 {
			log.Info().Str("email", email).Msg("promoted account to admin")
		}
	}
}
