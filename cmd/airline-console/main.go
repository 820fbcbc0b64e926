package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airline_reservations/internal/config"
	"airline_reservations/internal/database"
	"airline_reservations/internal/handlers"
	"airline_reservations/internal/logger"
	"airline_reservations/internal/services"
	"airline_reservations/internal/store"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "airline-console: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	envFile := config.EnvFileFromArgs(args, ".env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("airline-console", pflag.ContinueOnError)
	flags.String("env-file", envFile, "path of the .env file to load")
	cfg.BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting airline console",
		zap.String("backend", cfg.Backend),
		zap.Bool("env_file_loaded", cfg.EnvFileLoaded))

	backend, err := database.NewBackend(ctx, cfg.BackendOptions(), log)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer backend.Close()

	st := store.New(backend)
	created, err := st.EnsureDocuments(ctx, store.DefaultDocuments())
	if err != nil {
		return fmt.Errorf("failed to initialize documents: %w", err)
	}
	if len(created) > 0 {
		log.Info("created empty documents", zap.Strings("documents", created))
	}

	flights := services.NewFlightService(st, log)
	seats := services.NewSeatService(st, log)
	reservations := services.NewReservationService(st, log, rand.New(rand.NewSource(time.Now().UnixNano())))
	payments := services.NewPaymentService(log)
	aircraft := services.NewAircraftService(st, log)
	activity := services.NewActivityLogger(st, log)

	svc := handlers.Services{
		Flights:      flights,
		Seats:        seats,
		Reservations: reservations,
		Aircraft:     aircraft,
		Crew:         services.NewCrewService(st, flights, log),
		Users:        services.NewUserService(st, log),
		Activity:     activity,
		Reports:      services.NewReportService(flights, reservations, aircraft, activity, log),
		Booking:      services.NewBookingService(st, flights, seats, reservations, payments, aircraft, log),
	}

	app := handlers.NewApp(handlers.NewConsole(os.Stdin, os.Stdout), svc, log)
	if err := app.Run(ctx); err != nil {
		return err
	}
	log.Info("airline console exited")
	return nil
}
