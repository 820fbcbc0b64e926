package models

// Aircraft represents one airframe in the fleet
type Aircraft struct {
	AircraftID     string `json:"aircraftId"`
	Type           string `json:"type"`
	Capacity       int    `json:"capacity"`
	MaintenanceDue string `json:"maintenanceDue"`
	Status         string `json:"status"`
}

// Rows returns the number of seat rows generated for this aircraft
func (a *Aircraft) Rows() int {
	return a.Capacity / SeatsPerRow
}

// MaintenanceEntry is a dated maintenance note
type MaintenanceEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// MaintenanceLog holds the performed maintenance of one aircraft
type MaintenanceLog struct {
	Type string             `json:"type"`
	Logs []MaintenanceEntry `json:"maintenance_logs"`
}

// MaintenanceSchedule holds the planned maintenance of one aircraft
type MaintenanceSchedule struct {
	Schedule []MaintenanceEntry `json:"schedule"`
}

// MaintenanceReport aggregates maintenance data for one aircraft
type MaintenanceReport struct {
	Aircraft    Aircraft           `json:"aircraft"`
	Logs        []MaintenanceEntry `json:"logs"`
	Schedule    []MaintenanceEntry `json:"schedule"`
	Utilization float64            `json:"utilization_hours"`
}

// Crew roles
const (
	CrewRolePilot           = "Pilot"
	CrewRoleFlightAttendant = "Flight Attendant"
)

// MaxCrewFlightHours is the duty limit per crew member
const MaxCrewFlightHours = 100.0

// CrewMember is a pilot or flight attendant in crew.json
type CrewMember struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	TotalFlightHours float64  `json:"totalFlightHours"`
	AssignedFlights  []string `json:"assignedFlights"`
}

// CrewRoster is the crew.json document
type CrewRoster struct {
	Pilots           []*CrewMember `json:"pilots"`
	FlightAttendants []*CrewMember `json:"flight_attendants"`
}

// IsAssignedTo reports whether the crew member already flies the flight
func (c *CrewMember) IsAssignedTo(flightNumber string) bool {
	for _, f := range c.AssignedFlights {
		if f == flightNumber {
			return true
		}
	}
	return false
}

// CanFly reports whether adding hours keeps the member within the duty limit
func (c *CrewMember) CanFly(hours float64) bool {
	return c.TotalFlightHours+hours <= MaxCrewFlightHours
}
