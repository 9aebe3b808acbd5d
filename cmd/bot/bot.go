package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hillkeeper/hillkeeper/internal/adapters/config"
	"github.com/hillkeeper/hillkeeper/internal/adapters/database/redis"
	"github.com/hillkeeper/hillkeeper/internal/adapters/health"
	"github.com/hillkeeper/hillkeeper/internal/adapters/scheduler"
	"github.com/hillkeeper/hillkeeper/internal/domain/service"
	"github.com/hillkeeper/hillkeeper/pkg/logger"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type Bot struct {
	Session    *discordgo.Session
	Redis      *redis.Client
	DB         *gorm.DB
	Logger     *types.Logger
	Attendance *service.AttendanceService

	triggers []*scheduler.DailyTrigger
}

func New(cfg *config.Config) (*Bot, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers

	botLogger, err := logger.Named("bot")
	if err != nil {
		return nil, err
	}

	return &Bot{
		Session: session,
		Redis:   cfg.Redis,
		DB:      cfg.Database,
		Logger:  botLogger,
	}, nil
}

func (b *Bot) AddTrigger(trigger *scheduler.DailyTrigger) {
	b.triggers = append(b.triggers, trigger)
}

// Start opens the gateway session, starts the daily triggers and the health
// server, then blocks until the process is told to shut down.
func (b *Bot) Start() error {
	if err := b.Session.Open(); err != nil {
		return err
	}
	logger.Log.Info("Bot starting")

	for _, trigger := range b.triggers {
		trigger.Start()
	}

	if viper.GetBool("health.enabled") {
		healthLogger, err := logger.Named("health")
		if err != nil {
			return err
		}
		health.New(viper.GetString("health.addr"), b.Redis, healthLogger).Start()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Log.Info("Shutting down")
	for _, trigger := range b.triggers {
		trigger.Stop()
	}
	return b.Session.Close()
}

// RunOnce runs a single flow against the configured attendance channel and
// exits. Used by the -send flag for manual triggers.
func (b *Bot) RunOnce(kind string) error {
	if b.Attendance == nil {
		return fmt.Errorf("attendance service is not wired")
	}

	if err := b.Session.Open(); err != nil {
		return err
	}
	defer b.Session.Close()

	ctx := context.Background()
	channelID := viper.GetInt64("attendance.channel-id")
	roleID := viper.GetInt64("attendance.role-id")

	switch kind {
	case "morning":
		ttl := time.Duration(viper.GetInt("attendance.ttl-seconds")) * time.Second
		_, err := b.Attendance.Morning(ctx, channelID, roleID, ttl)
		return err
	case "evening":
		return b.Attendance.Evening(ctx, channelID, roleID)
	default:
		return fmt.Errorf("unknown notification type: %q (want morning or evening)", kind)
	}
}
