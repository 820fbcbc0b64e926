package services

import (
	"context"
	"errors"
	"fmt"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookingService sequences the operations that touch the flight catalog, the
// seat maps and the reservation ledger together. Every operation loads the
// three documents, applies all checks and mutations in memory, and only then
// writes back the documents it changed.
type BookingService struct {
	store        *store.Store
	flights      *FlightService
	seats        *SeatService
	reservations *ReservationService
	payments     *PaymentService
	aircraft     *AircraftService
	logger       *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	st *store.Store,
	flights *FlightService,
	seats *SeatService,
	reservations *ReservationService,
	payments *PaymentService,
	aircraft *AircraftService,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		store:        st,
		flights:      flights,
		seats:        seats,
		reservations: reservations,
		payments:     payments,
		aircraft:     aircraft,
		logger:       logger,
	}
}

// CancellationResult reports what a cancellation did
type CancellationResult struct {
	Reservation models.Reservation
	// Refund is nil when the reservation was not paid
	Refund    *models.PaymentResponse
	RefundErr error
	// SeatReleased is false when the seat could not be found in the seat map
	SeatReleased bool
}

type bookingState struct {
	flights      []models.Flight
	seats        models.SeatMaps
	reservations []models.Reservation
}

type changedDocs uint8

const (
	changedSeats changedDocs = 1 << iota
	changedFlights
	changedReservations

	changedAll = changedSeats | changedFlights | changedReservations
)

func (bs *BookingService) loadState(ctx context.Context) (*bookingState, error) {
	state := &bookingState{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		flights, err := bs.flights.ListFlights(gctx)
		state.flights = flights
		return err
	})
	g.Go(func() error {
		seats, err := bs.seats.LoadSeatMaps(gctx)
		state.seats = seats
		return err
	})
	g.Go(func() error {
		reservations, err := bs.reservations.ListReservations(gctx)
		state.reservations = reservations
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return state, nil
}

// commit writes the changed documents in a fixed order
func (bs *BookingService) commit(ctx context.Context, state *bookingState, changed changedDocs) error {
	if changed&changedSeats != 0 {
		if err := bs.store.Save(ctx, store.SeatsDocument, state.seats); err != nil {
			return err
		}
	}
	if changed&changedFlights != 0 {
		if err := bs.store.Save(ctx, store.FlightsDocument, state.flights); err != nil {
			return err
		}
	}
	if changed&changedReservations != 0 {
		if err := bs.store.Save(ctx, store.ReservationsDocument, state.reservations); err != nil {
			return err
		}
	}
	return nil
}

// BookFlight validates the payment, books the reservation's seat, takes one
// seat off the flight's counter and appends the paid reservation to the
// ledger. On any failure no document is written.
func (bs *BookingService) BookFlight(ctx context.Context, reservation *models.Reservation, method string, details *string) (*models.PaymentResponse, error) {
	bs.logger.Info("booking flight",
		zap.String("reservation_id", reservation.ReservationID),
		zap.String("flight_number", reservation.FlightNumber),
		zap.String("seat", reservation.SeatNumber))

	state, err := bs.loadState(ctx)
	if err != nil {
		return nil, err
	}

	if reservation.Status == "" {
		reservation.Status = models.ReservationStatusConfirmed
	}
	if !models.IsValidReservationStatus(reservation.Status) || !reservation.IsActive() {
		return nil, fmt.Errorf("booking with status %q: %w", reservation.Status, models.ErrInvalidStatus)
	}

	// Step 1: reject duplicate ids
	if findReservationIndex(state.reservations, reservation.ReservationID) >= 0 {
		return nil, fmt.Errorf("reservation %s: %w", reservation.ReservationID, models.ErrDuplicateReservationID)
	}

	if reservation.Price == 0 {
		if i := findFlightIndex(state.flights, reservation.FlightNumber); i >= 0 {
			reservation.Price = state.flights[i].Price
		}
	}

	// Step 2: validate payment
	payment, err := bs.payments.ProcessPayment(ctx, &models.PaymentRequest{
		ReservationID: reservation.ReservationID,
		Amount:        reservation.Price,
		Method:        method,
		Details:       details,
	})
	if err != nil {
		return payment, err
	}

	// Step 3: seat flip and counter decrement as one unit
	if err := bookSeat(state.seats, reservation.FlightNumber, reservation.SeatNumber); err != nil {
		return payment, fmt.Errorf("%w: %w", models.ErrSeatUnavailable, err)
	}
	if err := decrementSeats(state.flights, reservation.FlightNumber); err != nil {
		return payment, err
	}

	// Step 4: record payment and append
	reservation.PaymentStatus = models.PaymentStatusPaid
	reservation.PaymentMethod = method
	reservation.PaymentDetails = details
	state.reservations = append(state.reservations, *reservation)

	if err := bs.commit(ctx, state, changedAll); err != nil {
		return payment, fmt.Errorf("failed to persist booking: %w", err)
	}

	bs.logger.Info("booking created",
		zap.String("reservation_id", reservation.ReservationID),
		zap.String("transaction_id", payment.TransactionID))
	return payment, nil
}

// CancelReservation refunds a paid reservation, frees its seat and removes it
// from the ledger. A failed refund is reported in the result but does not stop
// the cancellation.
func (bs *BookingService) CancelReservation(ctx context.Context, reservationID string) (*CancellationResult, error) {
	state, err := bs.loadState(ctx)
	if err != nil {
		return nil, err
	}

	remaining, reservation, err := removeReservation(state.reservations, reservationID)
	if err != nil {
		return nil, err
	}
	state.reservations = remaining
	result := &CancellationResult{Reservation: reservation}

	if reservation.IsPaid() {
		result.Refund, result.RefundErr = bs.payments.ProcessRefund(ctx, &models.PaymentRequest{
			ReservationID: reservation.ReservationID,
			Amount:        reservation.Price,
			Method:        reservation.PaymentMethod,
			Details:       reservation.PaymentDetails,
		})
		if result.RefundErr != nil {
			bs.logger.Warn("refund failed, cancelling anyway",
				zap.String("reservation_id", reservationID),
				zap.Error(result.RefundErr))
		}
	}

	changed := changedReservations
	// A canceled reservation no longer holds its seat, which may have been sold again
	if reservation.IsActive() {
		changed |= bs.freeSeat(state, &reservation)
		result.SeatReleased = changed&changedSeats != 0
	}

	if err := bs.commit(ctx, state, changed); err != nil {
		return nil, fmt.Errorf("failed to persist cancellation: %w", err)
	}

	bs.logger.Info("reservation cancelled", zap.String("reservation_id", reservationID))
	return result, nil
}

// freeSeat releases the seat of an active reservation and puts it back on the
// flight's counter. It returns the documents it changed.
func (bs *BookingService) freeSeat(state *bookingState, reservation *models.Reservation) changedDocs {
	var changed changedDocs
	wasBooked := false
	if sm, ok := state.seats[reservation.FlightNumber]; ok {
		wasBooked = sm.Seats[reservation.SeatNumber] == models.SeatStatusBooked
	}
	if err := releaseSeat(state.seats, reservation.FlightNumber, reservation.SeatNumber); err != nil {
		bs.logger.Warn("seat not found while releasing",
			zap.String("reservation_id", reservation.ReservationID),
			zap.Error(err))
	} else {
		changed |= changedSeats
	}

	// Only a seat that actually went from booked to available goes back on the counter
	if wasBooked {
		if err := incrementSeats(state.flights, reservation.FlightNumber, bs.logger); err != nil {
			bs.logger.Warn("flight not found while releasing",
				zap.String("reservation_id", reservation.ReservationID),
				zap.Error(err))
		} else {
			changed |= changedFlights
		}
	}
	return changed
}

// UpdateReservationStatus changes a reservation's status. Moving to Canceled
// releases the seat like a cancellation but keeps the record; moving out of
// Canceled books the seat again and fails if it has been taken meanwhile.
func (bs *BookingService) UpdateReservationStatus(ctx context.Context, reservationID, status string) error {
	if !models.IsValidReservationStatus(status) {
		return fmt.Errorf("reservation status %q: %w", status, models.ErrInvalidStatus)
	}

	state, err := bs.loadState(ctx)
	if err != nil {
		return err
	}
	i := findReservationIndex(state.reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	reservation := &state.reservations[i]

	changed := changedReservations
	switch wasActive, willBeActive := reservation.IsActive(), status != models.ReservationStatusCanceled; {
	case wasActive && !willBeActive:
		changed |= bs.freeSeat(state, reservation)
	case !wasActive && willBeActive:
		if err := bookSeat(state.seats, reservation.FlightNumber, reservation.SeatNumber); err != nil {
			return fmt.Errorf("%w: %w", models.ErrSeatUnavailable, err)
		}
		if err := decrementSeats(state.flights, reservation.FlightNumber); err != nil {
			return err
		}
		changed |= changedSeats | changedFlights
	}
	reservation.Status = status

	if err := bs.commit(ctx, state, changed); err != nil {
		return fmt.Errorf("failed to persist status change: %w", err)
	}

	bs.logger.Info("reservation status updated",
		zap.String("reservation_id", reservationID),
		zap.String("status", status))
	return nil
}

// ChangeSeat moves a booking from oldSeat to newSeat in the seat map only.
// The reservation's seatNumber is left as is: callers must update it
// themselves, or use ChangeReservationSeat which does both.
func (bs *BookingService) ChangeSeat(ctx context.Context, flightNumber, oldSeat, newSeat string) error {
	if err := bs.seats.ChangeSeat(ctx, flightNumber, oldSeat, newSeat); err != nil {
		return err
	}
	bs.logger.Info("seat changed",
		zap.String("flight_number", flightNumber),
		zap.String("old_seat", oldSeat),
		zap.String("new_seat", newSeat))
	return nil
}

// ChangeReservationSeat moves a reservation to a new seat, updating the seat
// map and the ledger in one commit
func (bs *BookingService) ChangeReservationSeat(ctx context.Context, reservationID, newSeat string) error {
	state, err := bs.loadState(ctx)
	if err != nil {
		return err
	}

	i := findReservationIndex(state.reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	reservation := &state.reservations[i]
	if !reservation.IsActive() {
		return fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, models.ErrInvalidStatus)
	}

	if err := swapSeat(state.seats, reservation.FlightNumber, reservation.SeatNumber, newSeat); err != nil {
		return err
	}
	oldSeat := reservation.SeatNumber
	reservation.SeatNumber = newSeat

	if err := bs.commit(ctx, state, changedSeats|changedReservations); err != nil {
		return fmt.Errorf("failed to persist seat change: %w", err)
	}

	bs.logger.Info("reservation seat changed",
		zap.String("reservation_id", reservationID),
		zap.String("old_seat", oldSeat),
		zap.String("new_seat", newSeat))
	return nil
}

// AddFlight adds a flight to the catalog and generates its seat map from the
// capacity of the flight's aircraft type. Seat counters are derived from the
// seat map, so any totals on the input are ignored.
func (bs *BookingService) AddFlight(ctx context.Context, flight models.Flight) error {
	if flight.Status == "" {
		flight.Status = models.FlightStatusScheduled
	}
	if !models.IsValidFlightStatus(flight.Status) {
		return fmt.Errorf("flight status %q: %w", flight.Status, models.ErrInvalidStatus)
	}

	aircraft, err := bs.aircraft.FindByType(ctx, flight.AircraftModel)
	if err != nil {
		return err
	}

	state, err := bs.loadState(ctx)
	if err != nil {
		return err
	}
	if findFlightIndex(state.flights, flight.FlightNumber) >= 0 {
		return fmt.Errorf("flight %s: %w", flight.FlightNumber, models.ErrAlreadyExists)
	}

	err = createSeatMap(state.seats, flight.FlightNumber, aircraft.Rows(), models.SeatsPerRow)
	if err != nil && !errors.Is(err, models.ErrAlreadyExists) {
		return err
	}
	sm := state.seats[flight.FlightNumber]
	flight.TotalSeats = len(sm.Seats)
	flight.AvailableSeats = sm.CountAvailable()
	state.flights = append(state.flights, flight)

	if err := bs.commit(ctx, state, changedSeats|changedFlights); err != nil {
		return fmt.Errorf("failed to persist new flight: %w", err)
	}

	bs.logger.Info("flight added",
		zap.String("flight_number", flight.FlightNumber),
		zap.Int("total_seats", flight.TotalSeats))
	return nil
}

// DeleteFlight removes a flight and its seat map. Reservations on the flight
// stay in the ledger marked Canceled; their ids are returned.
func (bs *BookingService) DeleteFlight(ctx context.Context, flightNumber string) ([]string, error) {
	state, err := bs.loadState(ctx)
	if err != nil {
		return nil, err
	}

	i := findFlightIndex(state.flights, flightNumber)
	if i < 0 {
		return nil, fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	state.flights = append(state.flights[:i], state.flights[i+1:]...)
	changed := changedFlights

	if removeSeatMap(state.seats, flightNumber, bs.logger) {
		changed |= changedSeats
	}

	var canceled []string
	for j := range state.reservations {
		r := &state.reservations[j]
		if r.FlightNumber == flightNumber && r.IsActive() {
			r.Status = models.ReservationStatusCanceled
			canceled = append(canceled, r.ReservationID)
		}
	}
	if len(canceled) > 0 {
		changed |= changedReservations
	}

	if err := bs.commit(ctx, state, changed); err != nil {
		return nil, fmt.Errorf("failed to persist flight deletion: %w", err)
	}

	bs.logger.Info("flight deleted",
		zap.String("flight_number", flightNumber),
		zap.Strings("canceled_reservations", canceled))
	return canceled, nil
}

// CheckIn marks a passenger's reservation Checked-In and issues a boarding pass
func (bs *BookingService) CheckIn(ctx context.Context, passengerID, reservationID string) (*models.BoardingPass, error) {
	reservations, err := bs.reservations.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	reservation := &reservations[i]

	if reservation.PassengerID != passengerID {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotOwner)
	}
	if reservation.Status == models.ReservationStatusCheckedIn {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrAlreadyCheckedIn)
	}
	if !reservation.CanCheckIn() {
		return nil, fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, models.ErrInvalidStatus)
	}

	flight, err := bs.flights.FindFlight(ctx, reservation.FlightNumber)
	if err != nil {
		return nil, err
	}

	pass := models.NewBoardingPass(reservation, flight)
	reservation.Status = models.ReservationStatusCheckedIn
	if err := bs.store.Save(ctx, store.ReservationsDocument, reservations); err != nil {
		return nil, fmt.Errorf("failed to persist check-in: %w", err)
	}

	bs.logger.Info("passenger checked in",
		zap.String("reservation_id", reservationID),
		zap.String("passenger_id", passengerID))
	return pass, nil
}

// ValidateBoardingPass reports whether a boarding pass matches an active
// reservation on the same flight
func (bs *BookingService) ValidateBoardingPass(ctx context.Context, pass *models.BoardingPass) (bool, error) {
	reservation, err := bs.reservations.FindReservation(ctx, pass.ReservationID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return reservation.FlightNumber == pass.FlightNumber && reservation.IsActive(), nil
}
