package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// FlightService handles the flight catalog in flights.json
type FlightService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewFlightService creates a new flight service
func NewFlightService(st *store.Store, logger *zap.Logger) *FlightService {
	return &FlightService{
		store:  st,
		logger: logger,
	}
}

// ListFlights returns every flight in the catalog
func (fs *FlightService) ListFlights(ctx context.Context) ([]models.Flight, error) {
	flights, err := store.LoadList[models.Flight](ctx, fs.store, store.FlightsDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load flights: %w", err)
	}
	return flights, nil
}

func (fs *FlightService) saveFlights(ctx context.Context, flights []models.Flight) error {
	return fs.store.Save(ctx, store.FlightsDocument, flights)
}

// FindFlight looks up a flight by number
func (fs *FlightService) FindFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return nil, err
	}
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return nil, fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	return &flights[i], nil
}

// SearchFlights returns flights matching origin, destination and departure
// date. The boolean is false when nothing matched; callers usually fall back
// to showing the whole catalog.
func (fs *FlightService) SearchFlights(ctx context.Context, req *models.SearchRequest) ([]models.Flight, bool, error) {
	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return nil, false, err
	}

	var matches []models.Flight
	for _, flight := range flights {
		if strings.EqualFold(flight.Origin, req.Origin) &&
			strings.EqualFold(flight.Destination, req.Destination) &&
			flight.DepartureDate() == req.DepartureDate {
			matches = append(matches, flight)
		}
	}

	fs.logger.Debug("flight search",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("date", req.DepartureDate),
		zap.Int("matches", len(matches)))

	if len(matches) == 0 {
		return flights, false, nil
	}
	sortFlights(matches, req.SortBy)
	return matches, true, nil
}

// DecrementAvailableSeats takes one seat off a flight's counter
func (fs *FlightService) DecrementAvailableSeats(ctx context.Context, flightNumber string) error {
	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return err
	}
	if err := decrementSeats(flights, flightNumber); err != nil {
		return err
	}
	return fs.saveFlights(ctx, flights)
}

// IncrementAvailableSeats gives one seat back to a flight's counter, never
// going above totalSeats
func (fs *FlightService) IncrementAvailableSeats(ctx context.Context, flightNumber string) error {
	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return err
	}
	if err := incrementSeats(flights, flightNumber, fs.logger); err != nil {
		return err
	}
	return fs.saveFlights(ctx, flights)
}

// UpdateFlight replaces a flight's schedule details. Seat counters and crew
// are kept from the stored record since other operations own them.
func (fs *FlightService) UpdateFlight(ctx context.Context, flightNumber string, updated models.Flight) error {
	if !models.IsValidFlightStatus(updated.Status) {
		return fmt.Errorf("flight status %q: %w", updated.Status, models.ErrInvalidStatus)
	}

	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return err
	}
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}

	current := flights[i]
	updated.FlightNumber = current.FlightNumber
	updated.TotalSeats = current.TotalSeats
	updated.AvailableSeats = current.AvailableSeats
	updated.Pilot = current.Pilot
	updated.FlightAttendants = current.FlightAttendants
	flights[i] = updated

	if err := fs.saveFlights(ctx, flights); err != nil {
		return err
	}
	fs.logger.Info("flight updated", zap.String("flight_number", flightNumber))
	return nil
}

// UpdateFlightStatus changes only the status of a flight
func (fs *FlightService) UpdateFlightStatus(ctx context.Context, flightNumber, status string) error {
	if !models.IsValidFlightStatus(status) {
		return fmt.Errorf("flight status %q: %w", status, models.ErrInvalidStatus)
	}

	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return err
	}
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	flights[i].Status = status

	if err := fs.saveFlights(ctx, flights); err != nil {
		return err
	}
	fs.logger.Info("flight status updated",
		zap.String("flight_number", flightNumber),
		zap.String("status", status))
	return nil
}

// SetCrew records the assigned pilot and attendants on a flight
func (fs *FlightService) SetCrew(ctx context.Context, flightNumber string, pilot *models.CrewRef, attendants []*models.CrewRef) error {
	flights, err := fs.ListFlights(ctx)
	if err != nil {
		return err
	}
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	flights[i].Pilot = pilot
	flights[i].FlightAttendants = attendants
	return fs.saveFlights(ctx, flights)
}

func findFlightIndex(flights []models.Flight, flightNumber string) int {
	for i := range flights {
		if flights[i].FlightNumber == flightNumber {
			return i
		}
	}
	return -1
}

func decrementSeats(flights []models.Flight, flightNumber string) error {
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	if !flights[i].HasSeatsLeft() {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrNoSeatsLeft)
	}
	flights[i].AvailableSeats--
	return nil
}

func incrementSeats(flights []models.Flight, flightNumber string, logger *zap.Logger) error {
	i := findFlightIndex(flights, flightNumber)
	if i < 0 {
		return fmt.Errorf("flight %s: %w", flightNumber, models.ErrFlightNotFound)
	}
	if flights[i].AvailableSeats >= flights[i].TotalSeats {
		logger.Warn("available seats already at capacity",
			zap.String("flight_number", flightNumber),
			zap.Int("total_seats", flights[i].TotalSeats))
		return nil
	}
	flights[i].AvailableSeats++
	return nil
}

// sortFlights sorts flights by the specified criteria
func sortFlights(flights []models.Flight, sortBy string) {
	switch sortBy {
	case "fastest":
		sort.SliceStable(flights, func(i, j int) bool {
			di, _ := flights[i].Duration()
			dj, _ := flights[j].Duration()
			return di < dj
		})
	case "departure":
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Departure < flights[j].Departure
		})
	default:
		// Default to cheapest
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Price < flights[j].Price
		})
	}
}
