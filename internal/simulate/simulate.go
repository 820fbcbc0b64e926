// Package simulate drives random bookings, cancellations and seat changes
// through the booking service and checks the documents stay consistent.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"airline_reservations/internal/models"
	"airline_reservations/internal/services"

	"go.uber.org/zap"
)

// Operation kinds
const (
	OpBook       = "book"
	OpCancel     = "cancel"
	OpChangeSeat = "change-seat"
)

// OpResult is the outcome of one simulated operation
type OpResult struct {
	Name     string
	Kind     string
	Success  bool
	Rejected bool
	Error    string
	Duration time.Duration
}

// Report summarizes a simulation run
type Report struct {
	TotalOps   int
	Succeeded  int
	Rejected   int
	Failed     int
	Results    []OpResult
	Violations []services.Violation
}

// Passed reports whether every operation behaved and no violation was found
func (r *Report) Passed() bool {
	return r.Failed == 0 && len(r.Violations) == 0
}

// Simulator runs operations against the services of one store
type Simulator struct {
	booking      *services.BookingService
	flights      *services.FlightService
	seats        *services.SeatService
	reservations *services.ReservationService
	rng          *rand.Rand
	logger       *zap.Logger
}

// New creates a simulator
func New(
	booking *services.BookingService,
	flights *services.FlightService,
	seats *services.SeatService,
	reservations *services.ReservationService,
	rng *rand.Rand,
	logger *zap.Logger,
) *Simulator {
	return &Simulator{
		booking:      booking,
		flights:      flights,
		seats:        seats,
		reservations: reservations,
		rng:          rng,
		logger:       logger,
	}
}

// Run performs ops random operations one after another, then verifies the
// documents. Business rejections such as a taken seat count as Rejected, not
// Failed.
func (s *Simulator) Run(ctx context.Context, ops int) (*Report, error) {
	s.logger.Info("starting simulation", zap.Int("ops", ops))
	report := &Report{}

	for i := 0; i < ops; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var kind string
		switch n := s.rng.Intn(10); {
		case n < 6:
			kind = OpBook
		case n < 8:
			kind = OpCancel
		default:
			kind = OpChangeSeat
		}

		start := time.Now()
		err := s.runOp(ctx, kind)
		result := OpResult{
			Name:     fmt.Sprintf("%s #%d", kind, i+1),
			Kind:     kind,
			Duration: time.Since(start),
		}
		switch {
		case err == nil:
			result.Success = true
			report.Succeeded++
		case isRejection(err):
			result.Success = true
			result.Rejected = true
			result.Error = err.Error()
			report.Rejected++
		default:
			result.Error = err.Error()
			report.Failed++
		}
		report.TotalOps++
		report.Results = append(report.Results, result)
	}

	violations, err := s.booking.VerifyConsistency(ctx)
	if err != nil {
		return report, err
	}
	report.Violations = violations

	s.logger.Info("simulation completed",
		zap.Int("total", report.TotalOps),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("rejected", report.Rejected),
		zap.Int("failed", report.Failed),
		zap.Int("violations", len(report.Violations)))
	return report, nil
}

func (s *Simulator) runOp(ctx context.Context, kind string) error {
	switch kind {
	case OpBook:
		return s.book(ctx)
	case OpCancel:
		return s.cancel(ctx)
	default:
		return s.changeSeat(ctx)
	}
}

func (s *Simulator) book(ctx context.Context) error {
	flights, err := s.flights.ListFlights(ctx)
	if err != nil {
		return err
	}
	if len(flights) == 0 {
		return models.ErrFlightNotFound
	}
	flight := flights[s.rng.Intn(len(flights))]
	seat, err := s.randomSeat(ctx, flight.FlightNumber)
	if err != nil {
		return err
	}
	id, err := s.reservations.GenerateReservationID(ctx)
	if err != nil {
		return err
	}

	method, details := s.randomPayment()
	_, err = s.booking.BookFlight(ctx, &models.Reservation{
		ReservationID: id,
		PassengerID:   fmt.Sprintf("SIM%d", s.rng.Intn(1000)),
		PassengerName: "Simulated Passenger",
		FlightNumber:  flight.FlightNumber,
		SeatNumber:    seat,
		Gate:          models.DefaultGate,
		BoardingTime:  models.DefaultBoardingTime,
		Status:        models.ReservationStatusConfirmed,
	}, method, details)
	return err
}

func (s *Simulator) cancel(ctx context.Context) error {
	r, err := s.randomReservation(ctx)
	if err != nil {
		return err
	}
	_, err = s.booking.CancelReservation(ctx, r.ReservationID)
	return err
}

func (s *Simulator) changeSeat(ctx context.Context) error {
	r, err := s.randomReservation(ctx)
	if err != nil {
		return err
	}
	seat, err := s.randomSeat(ctx, r.FlightNumber)
	if err != nil {
		return err
	}
	return s.booking.ChangeReservationSeat(ctx, r.ReservationID, seat)
}

// randomSeat picks any seat of the flight, booked or not
func (s *Simulator) randomSeat(ctx context.Context, flightNumber string) (string, error) {
	sm, err := s.seats.GetSeatMap(ctx, flightNumber)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, row := range sm.Layout() {
		ids = append(ids, row...)
	}
	if len(ids) == 0 {
		return "", models.ErrSeatNotFound
	}
	return ids[s.rng.Intn(len(ids))], nil
}

func (s *Simulator) randomReservation(ctx context.Context) (*models.Reservation, error) {
	all, err := s.reservations.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, models.ErrNotFound
	}
	r := all[s.rng.Intn(len(all))]
	return &r, nil
}

// randomPayment returns a payment, invalid one time in ten
func (s *Simulator) randomPayment() (string, *string) {
	invalid := s.rng.Intn(10) == 0
	switch s.rng.Intn(3) {
	case 0:
		d := "4111111111111111"
		if invalid {
			d = "4111"
		}
		return models.PaymentMethodCreditCard, &d
	case 1:
		d := "sim@example.com"
		if invalid {
			d = "not-an-email"
		}
		return models.PaymentMethodPayPal, &d
	default:
		return models.PaymentMethodCash, nil
	}
}

func isRejection(err error) bool {
	for _, target := range []error{
		models.ErrNotFound,
		models.ErrFlightNotFound,
		models.ErrSeatNotFound,
		models.ErrSeatAlreadyBooked,
		models.ErrSeatNotBooked,
		models.ErrSeatUnavailable,
		models.ErrNoSeatsLeft,
		models.ErrDuplicateReservationID,
		models.ErrPaymentInvalid,
		models.ErrInvalidStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
