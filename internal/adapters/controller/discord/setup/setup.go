package setup

import (
	"context"
	"time"

	"github.com/hillkeeper/hillkeeper/cmd/bot"
	"github.com/hillkeeper/hillkeeper/internal/adapters/controller/discord/handlers"
	"github.com/hillkeeper/hillkeeper/internal/adapters/database/postgres"
	discordGateway "github.com/hillkeeper/hillkeeper/internal/adapters/gateway/discord"
	"github.com/hillkeeper/hillkeeper/internal/adapters/scheduler"
	"github.com/hillkeeper/hillkeeper/internal/domain/service"
	"github.com/hillkeeper/hillkeeper/pkg/logger"
	"github.com/hillkeeper/hillkeeper/pkg/smtp"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Setup wires the gateway, the domain services, the event handlers and the
// two daily triggers onto the bot.
func Setup(b *bot.Bot) error {
	gatewayLogger, err := logger.Named("gateway")
	if err != nil {
		return err
	}
	attendanceLogger, err := logger.Named("attendance")
	if err != nil {
		return err
	}
	reactionLogger, err := logger.Named("reaction")
	if err != nil {
		return err
	}
	schedulerLogger, err := logger.Named("scheduler")
	if err != nil {
		return err
	}

	gateway := discordGateway.New(b.Session, gatewayLogger)
	clock := service.NewClock()

	var reports service.ReportStorage
	if b.DB != nil {
		reports = postgres.NewReportStorage(b.DB)
	}

	var mailer service.SummaryMailer
	if viper.GetBool("service.smtp.enabled") {
		dialer := gomail.NewDialer(
			viper.GetString("service.smtp.host"),
			viper.GetInt("service.smtp.port"),
			viper.GetString("service.smtp.email"),
			viper.GetString("service.smtp.password"),
		)
		mailer = smtp.NewClient(
			dialer,
			viper.GetString("service.smtp.email"),
			viper.GetString("service.smtp.summary-to"),
			viper.GetString("service.smtp.domain"),
			attendanceLogger,
		)
	}

	attendanceService := service.NewAttendanceService(b.Redis.Events, b.Redis.Responses, gateway, reports, mailer, clock, attendanceLogger)
	b.Attendance = attendanceService

	responseTTL := time.Duration(viper.GetInt("attendance.ttl-seconds")) * time.Second
	reactionService := service.NewReactionService(b.Redis.Events, b.Redis.Responses, gateway, clock, responseTTL, reactionLogger)

	commandHandler := handlers.NewCommandHandler(attendanceService, b.Logger)
	reactionHandler := handlers.NewReactionHandler(reactionService, b.Logger)

	b.Session.AddHandler(handlers.OnReady(commandHandler, b.Logger))
	b.Session.AddHandler(reactionHandler.OnReactionAdd)
	b.Session.AddHandler(commandHandler.OnInteraction)

	morningAt, err := scheduler.ParseTimeOfDay(viper.GetString("attendance.morning-time"))
	if err != nil {
		return err
	}
	eveningAt, err := scheduler.ParseTimeOfDay(viper.GetString("attendance.evening-time"))
	if err != nil {
		return err
	}
	weekday, err := scheduler.ParseWeekday(viper.GetString("attendance.weekday"))
	if err != nil {
		return err
	}

	channelID := viper.GetInt64("attendance.channel-id")
	roleID := viper.GetInt64("attendance.role-id")
	eventTTL := time.Duration(viper.GetInt("attendance.ttl-seconds")) * time.Second

	b.AddTrigger(scheduler.NewDailyTrigger(
		"morning attendance check", morningAt, weekday, clock,
		func(ctx context.Context) error {
			_, errMorning := attendanceService.Morning(ctx, channelID, roleID, eventTTL)
			return errMorning
		},
		schedulerLogger,
	))
	b.AddTrigger(scheduler.NewDailyTrigger(
		"evening reminder", eveningAt, weekday, clock,
		func(ctx context.Context) error {
			return attendanceService.Evening(ctx, channelID, roleID)
		},
		schedulerLogger,
	))

	return nil
}
