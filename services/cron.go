// Package services contains the scheduled maintenance jobs.
package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/mine969/authsessionapi/api/session"
	"github.com/mine969/authsessionapi/api/user"
	"github.com/mine969/authsessionapi/config"
	"github.com/mine969/authsessionapi/shared/logger"
	"github.com/mine969/authsessionapi/shared/state"
	"github.com/mine969/authsessionapi/shared/zaplogger"
)

const lastStatsRunKey = "stats:last_run"

type CronService struct {
	cfg            *config.Config
	c              *cron.Cron
	audit          *logger.Logger
	appState       *state.State
	userService    *user.Service
	sessionService *session.Service
}

func NewCronService(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, audit *logger.Logger) (*CronService, error) {
	appState, err := state.New(db)
	if err != nil {
		return nil, err
	}
	return &CronService{
		cfg:            cfg,
		c:              cron.New(),
		audit:          audit,
		appState:       appState,
		userService:    user.NewService(db),
		sessionService: session.NewService(redisClient, time.Duration(cfg.SessionTTLSecs)*time.Second),
	}, nil
}

func (cs *CronService) Start() {
	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Initializing CronService")

	// Scheduled jobs
	cs.addScheduledJob("Auth Stats Job", cs.authStatsJob, "0 * * * *") // hourly

	// Startup jobs
	cs.addStartupJob("Auth Stats Job", cs.authStatsJob, 5*time.Second)

	cs.c.Start()
}

func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("Executing scheduled job", zaplogger.Fields{"job": name})
		job()
	})
	if err != nil {
		zaplogger.Error("Failed to schedule job", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("  * Scheduled job added: " + name)
}

func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("Executing startup job", zaplogger.Fields{"job": name})
		job()
	}()
	zaplogger.Info("  * Startup job queued : " + name)
}

// authStatsJob records registered-user and active-session counts
func (cs *CronService) authStatsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userCount, err := cs.userService.Count(ctx)
	if err != nil {
		zaplogger.Error("Failed to count users", zaplogger.Fields{"error": err.Error()})
		return
	}

	sessionCount, err := cs.sessionService.Count(ctx)
	if err != nil {
		zaplogger.Error("Failed to count sessions", zaplogger.Fields{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{
		"users":    userCount,
		"sessions": sessionCount,
	}
	zaplogger.Info("Auth stats", zaplogger.Fields(fields))
	if err := cs.audit.Info("stats", "auth stats snapshot", fields); err != nil {
		zaplogger.Error("Failed to write stats audit entry", zaplogger.Fields{"error": err.Error()})
	}
	if err := cs.appState.Set(ctx, lastStatsRunKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		zaplogger.Error("Failed to record stats run time", zaplogger.Fields{"error": err.Error()})
	}
}
