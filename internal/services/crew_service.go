package services

import (
	"context"
	"fmt"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// CrewService assigns pilots and flight attendants to flights
type CrewService struct {
	store   *store.Store
	flights *FlightService
	logger  *zap.Logger
}

// NewCrewService creates a new crew service
func NewCrewService(st *store.Store, flights *FlightService, logger *zap.Logger) *CrewService {
	return &CrewService{
		store:   st,
		flights: flights,
		logger:  logger,
	}
}

// CrewAssignment is the outcome of AssignCrewToFlight
type CrewAssignment struct {
	Pilot      *models.CrewRef
	Attendants []*models.CrewRef
	// PilotKept is true when the flight already had a pilot and the requested one was ignored
	PilotKept bool
	// Rejected maps attendant ids that were not assigned to the reason
	Rejected map[string]string
}

// Roster loads crew.json
func (cs *CrewService) Roster(ctx context.Context) (*models.CrewRoster, error) {
	roster, err := store.LoadObject[models.CrewRoster](ctx, cs.store, store.CrewDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load crew: %w", err)
	}
	return &roster, nil
}

// AssignCrewToFlight assigns a pilot and a set of attendants to a flight.
// Each member's flight hours grow by the flight duration and may not pass
// MaxCrewFlightHours. An unknown or over-limit pilot fails the whole call;
// attendants that cannot fly are skipped and reported in Rejected.
func (cs *CrewService) AssignCrewToFlight(ctx context.Context, flightNumber, pilotID string, attendantIDs []string) (*CrewAssignment, error) {
	flight, err := cs.flights.FindFlight(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	hours, err := flight.DurationHours()
	if err != nil {
		return nil, err
	}
	roster, err := cs.Roster(ctx)
	if err != nil {
		return nil, err
	}

	result := &CrewAssignment{
		Pilot:      flight.Pilot,
		Attendants: flight.FlightAttendants,
		Rejected:   make(map[string]string),
	}

	if pilotAssigned(roster, flightNumber) || flight.Pilot != nil {
		result.PilotKept = true
		cs.logger.Info("pilot already assigned", zap.String("flight_number", flightNumber))
	} else if pilotID != "" {
		pilot := findCrewMember(roster.Pilots, pilotID)
		if pilot == nil {
			return nil, fmt.Errorf("pilot %s: %w", pilotID, models.ErrNotFound)
		}
		if !pilot.CanFly(hours) {
			return nil, fmt.Errorf("pilot %s with %.0f hours: %w", pilotID, pilot.TotalFlightHours, models.ErrCrewHoursExceeded)
		}
		assignMember(pilot, flightNumber, hours)
		result.Pilot = &models.CrewRef{ID: pilot.ID, Name: pilot.Name, Role: models.CrewRolePilot}
	}

	for _, id := range attendantIDs {
		attendant := findCrewMember(roster.FlightAttendants, id)
		switch {
		case attendant == nil:
			result.Rejected[id] = "unknown flight attendant"
		case attendant.IsAssignedTo(flightNumber):
			result.Rejected[id] = "already assigned to this flight"
		case !attendant.CanFly(hours):
			result.Rejected[id] = fmt.Sprintf("would exceed %.0f flight hours", models.MaxCrewFlightHours)
		default:
			assignMember(attendant, flightNumber, hours)
			result.Attendants = append(result.Attendants, &models.CrewRef{
				ID:   attendant.ID,
				Name: attendant.Name,
				Role: models.CrewRoleFlightAttendant,
			})
		}
	}

	if err := cs.store.Save(ctx, store.CrewDocument, roster); err != nil {
		return nil, err
	}
	if err := cs.flights.SetCrew(ctx, flightNumber, result.Pilot, result.Attendants); err != nil {
		return nil, err
	}

	cs.logger.Info("crew assigned",
		zap.String("flight_number", flightNumber),
		zap.Int("attendants", len(result.Attendants)),
		zap.Int("rejected", len(result.Rejected)))
	return result, nil
}

// CrewForFlight returns every crew member assigned to a flight
func (cs *CrewService) CrewForFlight(ctx context.Context, flightNumber string) ([]models.CrewRef, error) {
	roster, err := cs.Roster(ctx)
	if err != nil {
		return nil, err
	}
	var crew []models.CrewRef
	for _, p := range roster.Pilots {
		if p.IsAssignedTo(flightNumber) {
			crew = append(crew, models.CrewRef{ID: p.ID, Name: p.Name, Role: models.CrewRolePilot})
		}
	}
	for _, fa := range roster.FlightAttendants {
		if fa.IsAssignedTo(flightNumber) {
			crew = append(crew, models.CrewRef{ID: fa.ID, Name: fa.Name, Role: models.CrewRoleFlightAttendant})
		}
	}
	return crew, nil
}

func pilotAssigned(roster *models.CrewRoster, flightNumber string) bool {
	for _, p := range roster.Pilots {
		if p.IsAssignedTo(flightNumber) {
			return true
		}
	}
	return false
}

func findCrewMember(members []*models.CrewMember, id string) *models.CrewMember {
	for _, m := range members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func assignMember(m *models.CrewMember, flightNumber string, hours float64) {
	m.AssignedFlights = append(m.AssignedFlights, flightNumber)
	m.TotalFlightHours += hours
}
