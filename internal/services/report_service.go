package services

import (
	"context"
	"fmt"

	"airline_reservations/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService builds the administrator reports
type ReportService struct {
	flights      *FlightService
	reservations *ReservationService
	aircraft     *AircraftService
	activity     *ActivityLogger
	logger       *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(flights *FlightService, reservations *ReservationService, aircraft *AircraftService, activity *ActivityLogger, logger *zap.Logger) *ReportService {
	return &ReportService{
		flights:      flights,
		reservations: reservations,
		aircraft:     aircraft,
		activity:     activity,
		logger:       logger,
	}
}

// FlightPerformanceReport summarises the flights departing in the given month.
// month and year are the MM and YYYY parts of the departure date.
func (rs *ReportService) FlightPerformanceReport(ctx context.Context, month, year string) (*models.FlightPerformanceReport, error) {
	var (
		flights      []models.Flight
		reservations []models.Reservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flights, err = rs.flights.ListFlights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = rs.reservations.ListReservations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.FlightPerformanceReport{Month: month, Year: year}
	period := year + "-" + month
	for i := range flights {
		f := &flights[i]
		if f.DepartureMonth() != period {
			continue
		}
		report.TotalScheduled++
		switch f.Status {
		case models.FlightStatusCompleted:
			report.Completed++
		case models.FlightStatusDelayed:
			report.Delayed++
		case models.FlightStatusCanceled:
			report.Canceled++
		}

		count, revenue := countAndRevenue(reservations, f.FlightNumber)
		report.TotalReservations += count
		report.TotalRevenue += revenue
		report.Flights = append(report.Flights, models.FlightPerformance{
			FlightNumber: f.FlightNumber,
			Status:       f.Status,
			Reservations: count,
			Revenue:      revenue,
		})
	}

	rs.logger.Info("flight performance report",
		zap.String("period", period),
		zap.Int("flights", report.TotalScheduled))
	return report, nil
}

// MaintenanceReport gathers the logs and schedule of an aircraft. Utilization
// is the total hours of completed flights flown by aircraft of its type.
func (rs *ReportService) MaintenanceReport(ctx context.Context, aircraftID string) (*models.MaintenanceReport, error) {
	aircraft, err := rs.aircraft.FindAircraft(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	report := &models.MaintenanceReport{Aircraft: *aircraft}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs, err := rs.aircraft.MaintenanceLogs(gctx, aircraftID)
		report.Logs = logs
		return err
	})
	g.Go(func() error {
		schedule, err := rs.aircraft.MaintenanceSchedule(gctx, aircraftID)
		report.Schedule = schedule
		return err
	})
	g.Go(func() error {
		flights, err := rs.flights.ListFlights(gctx)
		if err != nil {
			return err
		}
		for i := range flights {
			f := &flights[i]
			if f.AircraftModel != aircraft.Type || f.Status != models.FlightStatusCompleted {
				continue
			}
			hours, err := f.DurationHours()
			if err != nil {
				rs.logger.Warn("skipping flight with bad timestamps",
					zap.String("flight_number", f.FlightNumber),
					zap.Error(err))
				continue
			}
			report.Utilization += hours
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build maintenance report: %w", err)
	}
	return report, nil
}

// UserActivityReport returns the activity of one user, or of everyone when userID is empty
func (rs *ReportService) UserActivityReport(ctx context.Context, userID string) ([]models.Activity, error) {
	return rs.activity.List(ctx, userID)
}
