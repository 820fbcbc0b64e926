package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// ReservationService handles the reservation ledger in reservations.json
type ReservationService struct {
	store  *store.Store
	logger *zap.Logger
	rng    *rand.Rand
}

// NewReservationService creates a new reservation service
func NewReservationService(st *store.Store, logger *zap.Logger, rng *rand.Rand) *ReservationService {
	return &ReservationService{
		store:  st,
		logger: logger,
		rng:    rng,
	}
}

// ListReservations returns the whole ledger
func (rs *ReservationService) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations, err := store.LoadList[models.Reservation](ctx, rs.store, store.ReservationsDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	return reservations, nil
}

func (rs *ReservationService) saveReservations(ctx context.Context, reservations []models.Reservation) error {
	return rs.store.Save(ctx, store.ReservationsDocument, reservations)
}

// FindReservation looks up a reservation by id
func (rs *ReservationService) FindReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	return &reservations[i], nil
}

// ListByPassenger returns the reservations of one passenger
func (rs *ReservationService) ListByPassenger(ctx context.Context, passengerID string) ([]models.Reservation, error) {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	var result []models.Reservation
	for _, r := range reservations {
		if r.PassengerID == passengerID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListByFlight returns the reservations on one flight
func (rs *ReservationService) ListByFlight(ctx context.Context, flightNumber string) ([]models.Reservation, error) {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return reservationsForFlight(reservations, flightNumber), nil
}

// Create appends a reservation to the ledger
func (rs *ReservationService) Create(ctx context.Context, reservation models.Reservation) error {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	reservations, err = appendReservation(reservations, reservation)
	if err != nil {
		return err
	}
	return rs.saveReservations(ctx, reservations)
}

// UpdateStatus changes the status of a reservation. Canceling or reinstating
// moves the seat too and must go through BookingService.UpdateReservationStatus.
func (rs *ReservationService) UpdateStatus(ctx context.Context, reservationID, status string) error {
	if !models.IsValidReservationStatus(status) {
		return fmt.Errorf("reservation status %q: %w", status, models.ErrInvalidStatus)
	}

	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	if err := checkSeatHolding(&reservations[i], &models.Reservation{
		FlightNumber: reservations[i].FlightNumber,
		SeatNumber:   reservations[i].SeatNumber,
		Status:       status,
	}); err != nil {
		return err
	}
	reservations[i].Status = status

	if err := rs.saveReservations(ctx, reservations); err != nil {
		return err
	}
	rs.logger.Info("reservation status updated",
		zap.String("reservation_id", reservationID),
		zap.String("status", status))
	return nil
}

// Update replaces a whole reservation record. The id is kept. The seat an
// active reservation holds cannot be changed here.
func (rs *ReservationService) Update(ctx context.Context, reservationID string, updated models.Reservation) error {
	if !models.IsValidReservationStatus(updated.Status) {
		return fmt.Errorf("reservation status %q: %w", updated.Status, models.ErrInvalidStatus)
	}

	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	if err := checkSeatHolding(&reservations[i], &updated); err != nil {
		return err
	}
	updated.ReservationID = reservationID
	reservations[i] = updated
	return rs.saveReservations(ctx, reservations)
}

// UpdatePassengerName changes the passenger name on a reservation
func (rs *ReservationService) UpdatePassengerName(ctx context.Context, reservationID, name string) error {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	reservations[i].PassengerName = name
	return rs.saveReservations(ctx, reservations)
}

// UpdateSeatNumber records a new seat on a reservation. It does not touch the
// seat map; see BookingService.ChangeReservationSeat.
func (rs *ReservationService) UpdateSeatNumber(ctx context.Context, reservationID, seatNumber string) error {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	reservations[i].SeatNumber = seatNumber
	return rs.saveReservations(ctx, reservations)
}

// Remove deletes a reservation from the ledger
func (rs *ReservationService) Remove(ctx context.Context, reservationID string) error {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return err
	}
	reservations, _, err = removeReservation(reservations, reservationID)
	if err != nil {
		return err
	}
	return rs.saveReservations(ctx, reservations)
}

// CountReservationsAndRevenue totals the reservations and their prices on a flight
func (rs *ReservationService) CountReservationsAndRevenue(ctx context.Context, flightNumber string) (int, float64, error) {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return 0, 0, err
	}
	count, revenue := countAndRevenue(reservations, flightNumber)
	return count, revenue, nil
}

// GenerateReservationID returns an unused id of the form R1234
func (rs *ReservationService) GenerateReservationID(ctx context.Context) (string, error) {
	reservations, err := rs.ListReservations(ctx)
	if err != nil {
		return "", err
	}
	// 9000 possible ids; give up well before looping forever on a full ledger
	for attempt := 0; attempt < 1000; attempt++ {
		id := "R" + strconv.Itoa(1000+rs.rng.Intn(9000))
		if findReservationIndex(reservations, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a free reservation id")
}

// checkSeatHolding rejects ledger-only updates that would change which seat the
// reservation holds in the seat map
func checkSeatHolding(current, updated *models.Reservation) error {
	if current.IsActive() != updated.IsActive() {
		return fmt.Errorf("reservation %s from %s to %s changes its seat: %w",
			current.ReservationID, current.Status, updated.Status, models.ErrInvalidStatus)
	}
	if current.IsActive() && (current.FlightNumber != updated.FlightNumber || current.SeatNumber != updated.SeatNumber) {
		return fmt.Errorf("reservation %s holds seat %s on %s: %w",
			current.ReservationID, current.SeatNumber, current.FlightNumber, models.ErrInvalidStatus)
	}
	return nil
}

func findReservationIndex(reservations []models.Reservation, reservationID string) int {
	for i := range reservations {
		if reservations[i].ReservationID == reservationID {
			return i
		}
	}
	return -1
}

func appendReservation(reservations []models.Reservation, reservation models.Reservation) ([]models.Reservation, error) {
	if findReservationIndex(reservations, reservation.ReservationID) >= 0 {
		return reservations, fmt.Errorf("reservation %s: %w", reservation.ReservationID, models.ErrDuplicateReservationID)
	}
	return append(reservations, reservation), nil
}

func removeReservation(reservations []models.Reservation, reservationID string) ([]models.Reservation, models.Reservation, error) {
	i := findReservationIndex(reservations, reservationID)
	if i < 0 {
		return reservations, models.Reservation{}, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	removed := reservations[i]
	return append(reservations[:i], reservations[i+1:]...), removed, nil
}

func reservationsForFlight(reservations []models.Reservation, flightNumber string) []models.Reservation {
	var result []models.Reservation
	for _, r := range reservations {
		if r.FlightNumber == flightNumber {
			result = append(result, r)
		}
	}
	return result
}

func countAndRevenue(reservations []models.Reservation, flightNumber string) (int, float64) {
	count := 0
	revenue := 0.0
	for _, r := range reservations {
		if r.FlightNumber == flightNumber {
			count++
			revenue += r.Price
		}
	}
	return count, revenue
}
