package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weekly-planner/internal/bot"
	"weekly-planner/internal/coach"
	"weekly-planner/internal/config"
	"weekly-planner/internal/export"
	"weekly-planner/internal/metrics"
	"weekly-planner/internal/repository"
	"weekly-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	plans := service.NewPlanService(weekRepo, taskRepo)

	var proposer coach.Proposer
	if cfg.CoachEnabled() {
		proposer = coach.NewOpenAIProposer(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		log.Println("[info] OPENAI_API_KEY not set, coaching disabled")
	}
	var notion *export.NotionClient
	if cfg.NotionEnabled() {
		notion = export.NewNotionClient(cfg.NotionToken, cfg.NotionDatabaseID, cfg.NotionTitleProp)
	}

	telegramBot, err := bot.New(cfg.TelegramToken, bot.Services{
		Users:   userRepo,
		Plans:   plans,
		Coach:   service.NewCoachService(weekRepo, plans, proposer),
		Reports: service.NewReportService(plans),
		Exports: service.NewExportService(plans, notion),
	}, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Printf("metrics: %v", err)
			}
		}()
	}

	sendReports := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendWeeklyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(cfg.Location)
	if _, err := scheduler.ScheduleWeekly(cfg.WeeklyReportAt, sendReports); err != nil {
		log.Fatalf("schedule weekly report: %v", err)
	}
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, sendReports); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Weekly planner bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
