package models

import "strings"

// User is an account in users.json
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Role constants
const (
	RoleAdministrator = "Administrator"
	RoleBookingAgent  = "Booking Agent"
	RolePassenger     = "Passenger"
)

// NormalizeRole maps a case-insensitive role name to its canonical form.
// It returns "" for unknown roles.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "administrator":
		return RoleAdministrator
	case "booking agent":
		return RoleBookingAgent
	case "passenger":
		return RolePassenger
	}
	return ""
}

// IsValidRole checks if the role is one of the three known roles
func IsValidRole(role string) bool {
	return NormalizeRole(role) != ""
}

// Activity is one entry of reports/user_activity.json
type Activity struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details"`
}

// FlightPerformance is one flight line of the performance report
type FlightPerformance struct {
	FlightNumber string  `json:"flight_number"`
	Status       string  `json:"status"`
	Reservations int     `json:"reservations"`
	Revenue      float64 `json:"revenue"`
}

// FlightPerformanceReport summarises the flights departing in one month
type FlightPerformanceReport struct {
	Month             string              `json:"month"`
	Year              string              `json:"year"`
	TotalScheduled    int                 `json:"total_scheduled"`
	Completed         int                 `json:"completed"`
	Delayed           int                 `json:"delayed"`
	Canceled          int                 `json:"canceled"`
	TotalReservations int                 `json:"total_reservations"`
	TotalRevenue      float64             `json:"total_revenue"`
	Flights           []FlightPerformance `json:"flights"`
}
