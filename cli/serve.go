package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"yoga/config"
	"yoga/database"
	"yoga/middleware"
	"yoga/server"
	"yoga/services"
	"yoga/utils"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the enrollment reconciler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	stores := database.NewStores(db)

	publisher := utils.NewEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("[EVENTS] Error closing Kafka writer: %v", err)
		}
	}()

	enrollments := services.NewEnrollments(stores,
		services.WithNotifier(utils.NewEmailNotifier(cfg.SendGridAPIKey, cfg.EmailSender)),
		services.WithPublisher(publisher),
	)

	reconciler := services.NewReconciler(enrollments, cfg.ReconcileMaxAttempts)
	if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
		return err
	}
	defer reconciler.Stop()

	app := server.New(server.Deps{
		Stores:      stores,
		Tokens:      middleware.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL),
		Enrollments: enrollments,
		Gateway:     services.NewStripeGateway(cfg.StripeSecretKey),
		CorsOrigins: cfg.CorsOrigins,
		AccessLog:   true,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Tranquility oasis yoga center Server is running on port %s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
