package models

// Reservation links a passenger to a seat on a flight
type Reservation struct {
	ReservationID  string  `json:"reservationId"`
	PassengerID    string  `json:"passengerId"`
	PassengerName  string  `json:"passengerName"`
	FlightNumber   string  `json:"flightNumber"`
	SeatNumber     string  `json:"seatNumber"`
	Gate           string  `json:"gate"`
	BoardingTime   string  `json:"boardingTime"`
	Status         string  `json:"status"`
	Price          float64 `json:"price"`
	PaymentMethod  string  `json:"paymentMethod,omitempty"`
	PaymentDetails *string `json:"paymentDetails,omitempty"`
	PaymentStatus  string  `json:"paymentStatus,omitempty"`
}

// ReservationStatus constants
const (
	ReservationStatusPending   = "Pending"
	ReservationStatusConfirmed = "Confirmed"
	ReservationStatusCheckedIn = "Checked-In"
	ReservationStatusCanceled  = "Canceled"
)

// Default gate and boarding time assigned to self-service bookings
const (
	DefaultGate         = "A12"
	DefaultBoardingTime = "8:00"
)

// IsValidReservationStatus checks if the reservation status is valid
func IsValidReservationStatus(status string) bool {
	validStatuses := []string{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCheckedIn,
		ReservationStatusCanceled,
	}

	for _, s := range validStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the reservation still holds its seat
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationStatusCanceled
}

// IsPaid reports whether the reservation was paid for
func (r *Reservation) IsPaid() bool {
	return r.PaymentStatus == PaymentStatusPaid
}

// CanCheckIn checks if the reservation can be checked in
func (r *Reservation) CanCheckIn() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// BoardingPass is issued on check-in
type BoardingPass struct {
	ReservationID string `json:"reservationId"`
	PassengerName string `json:"passengerName"`
	FlightNumber  string `json:"flightNumber"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Departure     string `json:"departure"`
	SeatNumber    string `json:"seatNumber"`
	Gate          string `json:"gate"`
	BoardingTime  string `json:"boardingTime"`
}

// NewBoardingPass builds a boarding pass from a reservation and its flight
func NewBoardingPass(r *Reservation, f *Flight) *BoardingPass {
	return &BoardingPass{
		ReservationID: r.ReservationID,
		PassengerName: r.PassengerName,
		FlightNumber:  r.FlightNumber,
		Origin:        f.Origin,
		Destination:   f.Destination,
		Departure:     f.Departure,
		SeatNumber:    r.SeatNumber,
		Gate:          r.Gate,
		BoardingTime:  r.BoardingTime,
	}
}
