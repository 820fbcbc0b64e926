package services

import (
	"fmt"

	"airline_reservations/internal/models"
)

// Capability is an action a role may be allowed to perform
type Capability string

// Capabilities
const (
	CapManageFlights      Capability = "manage_flights"
	CapManageAircraft     Capability = "manage_aircraft"
	CapManageUsers        Capability = "manage_users"
	CapAssignCrew         Capability = "assign_crew"
	CapViewReports        Capability = "view_reports"
	CapSearchFlights      Capability = "search_flights"
	CapBookFlight         Capability = "book_flight"
	CapModifyReservation  Capability = "modify_reservation"
	CapCancelReservation  Capability = "cancel_reservation"
	CapScanBoardingPass   Capability = "scan_boarding_pass"
	CapViewOwnReservation Capability = "view_own_reservations"
	CapCheckIn            Capability = "check_in"
)

var roleCapabilities = map[string][]Capability{
	models.RoleAdministrator: {
		CapManageFlights, CapManageAircraft, CapManageUsers, CapAssignCrew, CapViewReports,
	},
	models.RoleBookingAgent: {
		CapSearchFlights, CapBookFlight, CapModifyReservation, CapCancelReservation, CapScanBoardingPass,
	},
	models.RolePassenger: {
		CapSearchFlights, CapBookFlight, CapViewOwnReservation, CapCheckIn,
	},
}

// Can reports whether role has the capability
func Can(role string, c Capability) bool {
	for _, granted := range roleCapabilities[models.NormalizeRole(role)] {
		if granted == c {
			return true
		}
	}
	return false
}

// Authorize returns ErrPermissionDenied unless role has the capability
func Authorize(role string, c Capability) error {
	if !Can(role, c) {
		return fmt.Errorf("%s may not %s: %w", role, c, models.ErrPermissionDenied)
	}
	return nil
}
