package main

import (
	"context"
	"log"
	"os"
	"time"

	"visaforge-be/internal/config"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/pkg/mailer"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/internal/service"
	"visaforge-be/pkg/database"
	pktNats "visaforge-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reminders",
		Short: "Email users about checklist tasks that are coming due",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		dryRun bool
		window time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reminder sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), window, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log who would be emailed without sending")
	cmd.Flags().DurationVar(&window, "window", service.DefaultReminderWindow, "how far ahead to look for due tasks")
	return cmd
}

func run(ctx context.Context, window time.Duration, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		return err
	}

	sweepLogger := logger.NewIsolatedLogger(cfg.App.ReminderLogPath)
	defer sweepLogger.Sync()

	var events service.EventPublisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	svc := service.NewReminderService(
		unitofwork.NewRepositoryFactory(db),
		mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		events,
		sweepLogger,
		cfg.SMTP.ReminderFromEmail,
		cfg.App.ClientURL,
	)

	res, err := svc.Sweep(ctx, window, dryRun)
	if err != nil {
		color.Red("Reminder sweep failed: %v", err)
		return err
	}

	if dryRun {
		color.Yellow("Dry run: %d reminder(s) would be sent, %d skipped", res.Sent, res.Skipped)
		return nil
	}
	color.Green("Sent %d reminder(s), %d failed, %d skipped", res.Sent, res.Failed, res.Skipped)
	return nil
}
