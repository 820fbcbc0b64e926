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
	"airline_reservations/internal/logger"
	"airline_reservations/internal/services"
	"airline_reservations/internal/simulate"
	"airline_reservations/internal/store"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// exitViolations is the exit status when the audit finds problems
const exitViolations = 1

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "consistency-check: %v\n", err)
		os.Exit(2)
	}
	os.Exit(code)
}

type checker struct {
	store        *store.Store
	flights      *services.FlightService
	seats        *services.SeatService
	reservations *services.ReservationService
	booking      *services.BookingService
}

func newChecker(st *store.Store, seed int64, log *zap.Logger) *checker {
	flights := services.NewFlightService(st, log)
	seats := services.NewSeatService(st, log)
	reservations := services.NewReservationService(st, log, rand.New(rand.NewSource(seed)))
	aircraft := services.NewAircraftService(st, log)
	return &checker{
		store:        st,
		flights:      flights,
		seats:        seats,
		reservations: reservations,
		booking:      services.NewBookingService(st, flights, seats, reservations, services.NewPaymentService(log), aircraft, log),
	}
}

func run(args []string) (int, error) {
	envFile := config.EnvFileFromArgs(args, ".env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return 0, err
	}

	flags := pflag.NewFlagSet("consistency-check", pflag.ContinueOnError)
	flags.String("env-file", envFile, "path of the .env file to load")
	ops := flags.Int("simulate", 0, "run this many random operations on a scratch copy before auditing")
	seed := flags.Int64("seed", time.Now().UnixNano(), "random seed for --simulate")
	verbose := flags.Bool("verbose", false, "list every rejected operation")
	cfg.BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0, nil
		}
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return 0, err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := database.NewBackend(ctx, cfg.BackendOptions(), log)
	if err != nil {
		return 0, fmt.Errorf("failed to open document store: %w", err)
	}
	defer backend.Close()
	st := store.New(backend)

	if *ops <= 0 {
		return audit(ctx, newChecker(st, *seed, log))
	}
	return simulateOnCopy(ctx, st, *ops, *seed, *verbose, log)
}

// audit verifies the live documents without changing them
func audit(ctx context.Context, c *checker) (int, error) {
	violations, err := c.booking.VerifyConsistency(ctx)
	if err != nil {
		return 0, err
	}
	printViolations(violations)
	if len(violations) > 0 {
		return exitViolations, nil
	}
	fmt.Println("Seat maps, flight counters and reservations are consistent.")
	return 0, nil
}

// simulateOnCopy copies the documents into a scratch directory, runs the
// random operations there and audits the result. The source is never written.
func simulateOnCopy(ctx context.Context, src *store.Store, ops int, seed int64, verbose bool, log *zap.Logger) (int, error) {
	dir, err := os.MkdirTemp("", "airline-simulation-*")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(dir)

	scratch := store.New(database.NewFileBackend(dir))
	names := make([]string, 0, len(store.DefaultDocuments()))
	for name := range store.DefaultDocuments() {
		names = append(names, name)
	}
	if err := src.CopyTo(ctx, scratch, names); err != nil {
		return 0, err
	}
	if _, err := scratch.EnsureDocuments(ctx, store.DefaultDocuments()); err != nil {
		return 0, err
	}

	c := newChecker(scratch, seed, log)
	before, err := c.booking.VerifyConsistency(ctx)
	if err != nil {
		return 0, err
	}
	if len(before) > 0 {
		fmt.Println("Documents are inconsistent before the simulation:")
		printViolations(before)
		return exitViolations, nil
	}

	sim := simulate.New(c.booking, c.flights, c.seats, c.reservations, rand.New(rand.NewSource(seed)), log)
	report, err := sim.Run(ctx, ops)
	if err != nil {
		return 0, err
	}

	for _, r := range report.Results {
		if !r.Success || (verbose && r.Rejected) {
			fmt.Printf("%-20s %-8s %s (%v)\n", r.Name, outcome(r), r.Error, r.Duration)
		}
	}
	fmt.Println("\n=== Simulation Summary ===")
	fmt.Printf("Seed:       %d\n", seed)
	fmt.Printf("Operations: %d\n", report.TotalOps)
	fmt.Printf("Succeeded:  %d\n", report.Succeeded)
	fmt.Printf("Rejected:   %d\n", report.Rejected)
	fmt.Printf("Failed:     %d\n", report.Failed)
	printViolations(report.Violations)

	if !report.Passed() {
		return exitViolations, nil
	}
	fmt.Println("Documents stayed consistent.")
	return 0, nil
}

func outcome(r simulate.OpResult) string {
	switch {
	case !r.Success:
		return "FAILED"
	case r.Rejected:
		return "rejected"
	}
	return "ok"
}

func printViolations(violations []services.Violation) {
	if len(violations) == 0 {
		return
	}
	fmt.Printf("%d consistency violation(s):\n", len(violations))
	for _, v := range violations {
		fmt.Println("  " + v.String())
	}
}
