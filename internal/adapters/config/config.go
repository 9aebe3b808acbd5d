package config

import (
	"fmt"
	"log"
	"os"
	"time"

	postgresStorage "github.com/hillkeeper/hillkeeper/internal/adapters/database/postgres"
	redisAdapter "github.com/hillkeeper/hillkeeper/internal/adapters/database/redis"
	"github.com/hillkeeper/hillkeeper/internal/domain/utils/location"
	"github.com/hillkeeper/hillkeeper/pkg/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Config struct {
	Redis    *redisAdapter.Client
	Database *gorm.DB // nil when the report archive is disabled
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("settings.timezone", "Asia/Seoul")
	viper.SetDefault("attendance.morning-time", "09:00")
	viper.SetDefault("attendance.evening-time", "21:45")
	viper.SetDefault("attendance.weekday", "thursday")
	viper.SetDefault("attendance.ttl-seconds", 604800)
	viper.SetDefault("attendance.test-ttl-seconds", 60)
	viper.SetDefault("health.addr", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if token := viper.GetString("bot.token"); token != "" {
		if err := os.Setenv("DISCORD_TOKEN", token); err != nil {
			panic(err)
		}
	}
}

func Get() *Config {
	initConfig()

	if err := location.Set(viper.GetString("settings.timezone")); err != nil {
		panic(err)
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	redisClient, err := redisAdapter.New(redisAdapter.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetString("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	}
	logger.Log.Info("Successfully connected to redis")

	var database *gorm.DB
	if viper.GetBool("service.database.enabled") {
		var gormConfig *gorm.Config
		if viper.GetBool("settings.debug") {
			newLogger := gormLogger.New(
				log.New(os.Stdout, "\r\n", log.LstdFlags),
				gormLogger.Config{
					SlowThreshold: time.Second,
					LogLevel:      gormLogger.Info,
					Colorful:      true,
				},
			)
			gormConfig = &gorm.Config{
				Logger: newLogger,
			}
		} else {
			gormConfig = &gorm.Config{}
		}

		dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=%s",
			viper.GetString("service.database.user"),
			viper.GetString("service.database.password"),
			viper.GetString("service.database.name"),
			viper.GetString("service.database.host"),
			viper.GetInt("service.database.port"),
			viper.GetString("settings.timezone"),
		)

		database, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			logger.Log.Panicf("Failed to connect to the database: %v", err)
		}
		logger.Log.Info("Successfully connected to the database")

		if errMigrate := database.AutoMigrate(postgresStorage.Migrations...); errMigrate != nil {
			logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
		}
	}

	return &Config{
		Redis:    redisClient,
		Database: database,
	}
}
