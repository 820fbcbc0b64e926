package services

import (
	"context"
	"fmt"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// AircraftService manages the fleet and its maintenance records
type AircraftService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAircraftService creates a new aircraft service
func NewAircraftService(st *store.Store, logger *zap.Logger) *AircraftService {
	return &AircraftService{
		store:  st,
		logger: logger,
	}
}

// ListAircraft returns the whole fleet
func (as *AircraftService) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	fleet, err := store.LoadList[models.Aircraft](ctx, as.store, store.AircraftDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load aircraft: %w", err)
	}
	return fleet, nil
}

// FindAircraft looks up an aircraft by id
func (as *AircraftService) FindAircraft(ctx context.Context, aircraftID string) (*models.Aircraft, error) {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fleet {
		if fleet[i].AircraftID == aircraftID {
			return &fleet[i], nil
		}
	}
	return nil, fmt.Errorf("aircraft %s: %w", aircraftID, models.ErrNotFound)
}

// FindByType returns the first aircraft of the given type. Flights refer to
// aircraft by type, and the type decides the seat map size.
func (as *AircraftService) FindByType(ctx context.Context, aircraftType string) (*models.Aircraft, error) {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fleet {
		if fleet[i].Type == aircraftType {
			return &fleet[i], nil
		}
	}
	return nil, fmt.Errorf("aircraft type %s: %w", aircraftType, models.ErrNotFound)
}

// AddAircraft appends an aircraft to the fleet
func (as *AircraftService) AddAircraft(ctx context.Context, aircraft models.Aircraft) error {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return err
	}
	for _, a := range fleet {
		if a.AircraftID == aircraft.AircraftID {
			return fmt.Errorf("aircraft %s: %w", aircraft.AircraftID, models.ErrAlreadyExists)
		}
	}
	fleet = append(fleet, aircraft)
	if err := as.store.Save(ctx, store.AircraftDocument, fleet); err != nil {
		return err
	}
	as.logger.Info("aircraft added", zap.String("aircraft_id", aircraft.AircraftID), zap.String("type", aircraft.Type))
	return nil
}

// UpdateAircraft replaces an aircraft record
func (as *AircraftService) UpdateAircraft(ctx context.Context, aircraftID string, updated models.Aircraft) error {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return err
	}
	for i := range fleet {
		if fleet[i].AircraftID == aircraftID {
			updated.AircraftID = aircraftID
			fleet[i] = updated
			return as.store.Save(ctx, store.AircraftDocument, fleet)
		}
	}
	return fmt.Errorf("aircraft %s: %w", aircraftID, models.ErrNotFound)
}

// DeleteAircraft removes an aircraft from the fleet
func (as *AircraftService) DeleteAircraft(ctx context.Context, aircraftID string) error {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return err
	}
	for i := range fleet {
		if fleet[i].AircraftID == aircraftID {
			fleet = append(fleet[:i], fleet[i+1:]...)
			if err := as.store.Save(ctx, store.AircraftDocument, fleet); err != nil {
				return err
			}
			as.logger.Info("aircraft deleted", zap.String("aircraft_id", aircraftID))
			return nil
		}
	}
	return fmt.Errorf("aircraft %s: %w", aircraftID, models.ErrNotFound)
}

// loadMaintenanceLogs reads maintenance_logs.json, an array whose first
// element maps aircraft ids to their logs
func (as *AircraftService) loadMaintenanceLogs(ctx context.Context) (map[string]*models.MaintenanceLog, error) {
	docs, err := store.LoadList[map[string]*models.MaintenanceLog](ctx, as.store, store.MaintenanceLogsDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance logs: %w", err)
	}
	if len(docs) == 0 || docs[0] == nil {
		return map[string]*models.MaintenanceLog{}, nil
	}
	return docs[0], nil
}

func (as *AircraftService) loadMaintenanceSchedule(ctx context.Context) (map[string]*models.MaintenanceSchedule, error) {
	schedule, err := store.LoadObject[map[string]*models.MaintenanceSchedule](ctx, as.store, store.MaintenanceScheduleDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance schedule: %w", err)
	}
	if schedule == nil {
		schedule = map[string]*models.MaintenanceSchedule{}
	}
	return schedule, nil
}

// MaintenanceLogs returns the performed maintenance of an aircraft
func (as *AircraftService) MaintenanceLogs(ctx context.Context, aircraftID string) ([]models.MaintenanceEntry, error) {
	logs, err := as.loadMaintenanceLogs(ctx)
	if err != nil {
		return nil, err
	}
	if entry, ok := logs[aircraftID]; ok && entry != nil {
		return entry.Logs, nil
	}
	return nil, nil
}

// MaintenanceSchedule returns the planned maintenance of an aircraft
func (as *AircraftService) MaintenanceSchedule(ctx context.Context, aircraftID string) ([]models.MaintenanceEntry, error) {
	schedule, err := as.loadMaintenanceSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if entry, ok := schedule[aircraftID]; ok && entry != nil {
		return entry.Schedule, nil
	}
	return nil, nil
}

// AddMaintenanceLog records performed maintenance on an aircraft
func (as *AircraftService) AddMaintenanceLog(ctx context.Context, aircraftID, date, description string) error {
	aircraft, err := as.FindAircraft(ctx, aircraftID)
	if err != nil {
		return err
	}
	logs, err := as.loadMaintenanceLogs(ctx)
	if err != nil {
		return err
	}

	entry, ok := logs[aircraftID]
	if !ok || entry == nil {
		entry = &models.MaintenanceLog{Type: aircraft.Type}
		logs[aircraftID] = entry
	}
	entry.Logs = append(entry.Logs, models.MaintenanceEntry{Date: date, Description: description})

	if err := as.store.Save(ctx, store.MaintenanceLogsDocument, []map[string]*models.MaintenanceLog{logs}); err != nil {
		return err
	}
	as.logger.Info("maintenance logged", zap.String("aircraft_id", aircraftID), zap.String("date", date))
	return nil
}

// ScheduleMaintenance plans maintenance for an aircraft and moves its
// maintenanceDue date when the new date is earlier
func (as *AircraftService) ScheduleMaintenance(ctx context.Context, aircraftID, date, description string) error {
	fleet, err := as.ListAircraft(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range fleet {
		if fleet[i].AircraftID == aircraftID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("aircraft %s: %w", aircraftID, models.ErrNotFound)
	}

	schedule, err := as.loadMaintenanceSchedule(ctx)
	if err != nil {
		return err
	}
	entry, ok := schedule[aircraftID]
	if !ok || entry == nil {
		entry = &models.MaintenanceSchedule{}
		schedule[aircraftID] = entry
	}
	entry.Schedule = append(entry.Schedule, models.MaintenanceEntry{Date: date, Description: description})

	if err := as.store.Save(ctx, store.MaintenanceScheduleDocument, schedule); err != nil {
		return err
	}

	if fleet[idx].MaintenanceDue == "" || date < fleet[idx].MaintenanceDue {
		fleet[idx].MaintenanceDue = date
		if err := as.store.Save(ctx, store.AircraftDocument, fleet); err != nil {
			return err
		}
	}

	as.logger.Info("maintenance scheduled", zap.String("aircraft_id", aircraftID), zap.String("date", date))
	return nil
}
