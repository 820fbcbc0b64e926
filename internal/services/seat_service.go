package services

import (
	"context"
	"fmt"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// SeatService owns the per-flight seat maps in seats.json
type SeatService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSeatService creates a new seat service
func NewSeatService(st *store.Store, logger *zap.Logger) *SeatService {
	return &SeatService{
		store:  st,
		logger: logger,
	}
}

// LoadSeatMaps loads the whole seats.json document
func (ss *SeatService) LoadSeatMaps(ctx context.Context) (models.SeatMaps, error) {
	maps, err := store.LoadObject[models.SeatMaps](ctx, ss.store, store.SeatsDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat maps: %w", err)
	}
	if maps == nil {
		maps = models.SeatMaps{}
	}
	return maps, nil
}

func (ss *SeatService) saveSeatMaps(ctx context.Context, maps models.SeatMaps) error {
	return ss.store.Save(ctx, store.SeatsDocument, maps)
}

// GetSeatMap returns the seat map of one flight
func (ss *SeatService) GetSeatMap(ctx context.Context, flightNumber string) (*models.SeatMap, error) {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return nil, err
	}
	sm, ok := maps[flightNumber]
	if !ok {
		return nil, fmt.Errorf("seat map for %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	return sm, nil
}

// CreateSeatMap generates rows*cols available seats for a flight. It returns
// ErrAlreadyExists without touching the document if the flight already has a map.
func (ss *SeatService) CreateSeatMap(ctx context.Context, flightNumber string, rows, cols int) error {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return err
	}
	if err := createSeatMap(maps, flightNumber, rows, cols); err != nil {
		return err
	}
	if err := ss.saveSeatMaps(ctx, maps); err != nil {
		return err
	}
	ss.logger.Info("seat map created",
		zap.String("flight_number", flightNumber),
		zap.Int("rows", rows),
		zap.Int("cols", cols))
	return nil
}

// MarkBooked flips an available seat to booked
func (ss *SeatService) MarkBooked(ctx context.Context, flightNumber, seatID string) error {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return err
	}
	if err := bookSeat(maps, flightNumber, seatID); err != nil {
		return err
	}
	return ss.saveSeatMaps(ctx, maps)
}

// MarkAvailable flips a seat back to available
func (ss *SeatService) MarkAvailable(ctx context.Context, flightNumber, seatID string) error {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return err
	}
	if err := releaseSeat(maps, flightNumber, seatID); err != nil {
		return err
	}
	return ss.saveSeatMaps(ctx, maps)
}

// ChangeSeat books newSeat and releases oldSeat in a single write. Neither seat
// changes if newSeat is not available.
func (ss *SeatService) ChangeSeat(ctx context.Context, flightNumber, oldSeat, newSeat string) error {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return err
	}
	if err := swapSeat(maps, flightNumber, oldSeat, newSeat); err != nil {
		return err
	}
	return ss.saveSeatMaps(ctx, maps)
}

// RemoveFlightSeatMap deletes every seat of a flight. It reports whether a map was removed.
func (ss *SeatService) RemoveFlightSeatMap(ctx context.Context, flightNumber string) (bool, error) {
	maps, err := ss.LoadSeatMaps(ctx)
	if err != nil {
		return false, err
	}
	if !removeSeatMap(maps, flightNumber, ss.logger) {
		return false, nil
	}
	if err := ss.saveSeatMaps(ctx, maps); err != nil {
		return false, err
	}
	return true, nil
}

// createSeatMap adds a new grid to maps
func createSeatMap(maps models.SeatMaps, flightNumber string, rows, cols int) error {
	if _, exists := maps[flightNumber]; exists {
		return fmt.Errorf("seat map for %s: %w", flightNumber, models.ErrAlreadyExists)
	}
	sm, err := models.NewSeatMap(rows, cols)
	if err != nil {
		return err
	}
	maps[flightNumber] = sm
	return nil
}

func lookupSeat(maps models.SeatMaps, flightNumber, seatID string) (*models.SeatMap, error) {
	sm, ok := maps[flightNumber]
	if !ok {
		return nil, fmt.Errorf("seat map for %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	if !sm.Has(seatID) {
		return nil, fmt.Errorf("seat %s on %s: %w", seatID, flightNumber, models.ErrSeatNotFound)
	}
	return sm, nil
}

func bookSeat(maps models.SeatMaps, flightNumber, seatID string) error {
	sm, err := lookupSeat(maps, flightNumber, seatID)
	if err != nil {
		return err
	}
	if !sm.IsAvailable(seatID) {
		return fmt.Errorf("seat %s on %s: %w", seatID, flightNumber, models.ErrSeatAlreadyBooked)
	}
	sm.Seats[seatID] = models.SeatStatusBooked
	return nil
}

func releaseSeat(maps models.SeatMaps, flightNumber, seatID string) error {
	sm, err := lookupSeat(maps, flightNumber, seatID)
	if err != nil {
		return err
	}
	sm.Seats[seatID] = models.SeatStatusAvailable
	return nil
}

func swapSeat(maps models.SeatMaps, flightNumber, oldSeat, newSeat string) error {
	sm, ok := maps[flightNumber]
	if !ok {
		return fmt.Errorf("seat map for %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	if !sm.Has(oldSeat) {
		return fmt.Errorf("seat %s on %s: %w", oldSeat, flightNumber, models.ErrSeatNotFound)
	}
	if oldSeat == newSeat {
		return fmt.Errorf("seat %s on %s is the current seat: %w", newSeat, flightNumber, models.ErrSeatAlreadyBooked)
	}
	if sm.Seats[oldSeat] != models.SeatStatusBooked {
		return fmt.Errorf("seat %s on %s: %w", oldSeat, flightNumber, models.ErrSeatNotBooked)
	}
	if !sm.IsAvailable(newSeat) {
		return fmt.Errorf("seat %s on %s: %w", newSeat, flightNumber, models.ErrSeatAlreadyBooked)
	}
	sm.Seats[newSeat] = models.SeatStatusBooked
	sm.Seats[oldSeat] = models.SeatStatusAvailable
	return nil
}

func removeSeatMap(maps models.SeatMaps, flightNumber string, logger *zap.Logger) bool {
	if _, ok := maps[flightNumber]; !ok {
		logger.Info("no seat data for flight", zap.String("flight_number", flightNumber))
		return false
	}
	delete(maps, flightNumber)
	return true
}
