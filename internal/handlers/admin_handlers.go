package handlers

import (
	"context"
	"fmt"
	"strings"

	"airline_reservations/internal/models"
	"airline_reservations/internal/services"
)

// AdminHandlers serves the administrator menus
type AdminHandlers struct {
	app  *App
	user *models.User
}

// NewAdminHandlers creates the administrator menus for a logged in user
func NewAdminHandlers(app *App, user *models.User) *AdminHandlers {
	return &AdminHandlers{app: app, user: user}
}

func (h *AdminHandlers) record(ctx context.Context, action, details string) {
	h.app.svc.Activity.Record(ctx, h.user.ID, "admin", action, details)
}

// Run shows the administrator menu until logout
func (h *AdminHandlers) Run(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Administrator Menu", []string{
			"Manage Flights",
			"Manage Aircraft",
			"Manage Users",
			"Generate Reports",
			"Logout",
		})
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = h.manageFlights(ctx)
		case 2:
			err = h.manageAircraft(ctx)
		case 3:
			err = h.manageUsers(ctx)
		case 4:
			err = h.reportsMenu(ctx)
		case 5:
			h.record(ctx, "Logged out", "")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *AdminHandlers) manageFlights(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Manage Flights", []string{
			"Add Flight",
			"Update Flight",
			"Update Flight Status",
			"Delete Flight",
			"View All Flights",
			"Assign Crew to Flight",
			"View Crew for Flight",
			"View Seat Map",
			"Back",
		})
		if err != nil {
			return err
		}

		var action func() error
		capability := services.CapManageFlights
		switch choice {
		case 1:
			action = func() error { return h.addFlight(ctx) }
		case 2:
			action = func() error { return h.updateFlight(ctx) }
		case 3:
			action = func() error { return h.updateFlightStatus(ctx) }
		case 4:
			action = func() error { return h.deleteFlight(ctx) }
		case 5:
			action = func() error { return h.viewFlights(ctx) }
		case 6:
			capability = services.CapAssignCrew
			action = func() error { return h.assignCrew(ctx) }
		case 7:
			capability = services.CapAssignCrew
			action = func() error { return h.viewCrew(ctx) }
		case 8:
			action = func() error {
				flightNumber, err := h.app.console.Prompt("Enter Flight Number: ")
				if err != nil {
					return err
				}
				return h.app.showSeatMap(ctx, flightNumber)
			}
		case 9:
			return nil
		}
		if err := h.app.perform(h.user, capability, action); err != nil {
			return err
		}
	}
}

func (h *AdminHandlers) promptFlightFields(f *models.Flight) error {
	c := h.app.console
	var err error
	if f.Origin, err = c.PromptDefault("Origin", f.Origin); err != nil {
		return err
	}
	if f.Destination, err = c.PromptDefault("Destination", f.Destination); err != nil {
		return err
	}
	if f.Departure, err = c.PromptDefault("Departure (YYYY-MM-DD HH:MM:SS)", f.Departure); err != nil {
		return err
	}
	if f.Arrival, err = c.PromptDefault("Arrival (YYYY-MM-DD HH:MM:SS)", f.Arrival); err != nil {
		return err
	}
	if _, err := f.Duration(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	if f.AircraftModel, err = c.PromptDefault("Aircraft type", f.AircraftModel); err != nil {
		return err
	}
	if f.Status, err = c.PromptDefault("Status (Scheduled/Delayed/Canceled/Completed)", f.Status); err != nil {
		return err
	}
	price, err := c.PromptDefault("Price", fmt.Sprintf("%.2f", f.Price))
	if err != nil {
		return err
	}
	if _, err := fmt.Sscanf(price, "%f", &f.Price); err != nil {
		return fmt.Errorf("invalid price %q", price)
	}
	return nil
}

func (h *AdminHandlers) addFlight(ctx context.Context) error {
	flightNumber, err := h.app.console.Prompt("Enter Flight Number: ")
	if err != nil {
		return err
	}
	f := models.Flight{FlightNumber: flightNumber, Status: models.FlightStatusScheduled}
	if err := h.promptFlightFields(&f); err != nil {
		return err
	}
	if err := h.app.svc.Booking.AddFlight(ctx, f); err != nil {
		return err
	}
	h.record(ctx, "Added flight", "Flight Number: "+flightNumber)
	h.app.console.Printf("Flight %s added successfully.\n", flightNumber)
	return nil
}

func (h *AdminHandlers) updateFlight(ctx context.Context) error {
	flightNumber, err := h.app.console.Prompt("Enter Flight Number to update: ")
	if err != nil {
		return err
	}
	current, err := h.app.svc.Flights.FindFlight(ctx, flightNumber)
	if err != nil {
		return err
	}
	updated := *current
	if err := h.promptFlightFields(&updated); err != nil {
		return err
	}
	if err := h.app.svc.Flights.UpdateFlight(ctx, flightNumber, updated); err != nil {
		return err
	}
	h.record(ctx, "Updated flight", "Flight Number: "+flightNumber)
	h.app.console.Printf("Flight %s updated successfully.\n", flightNumber)
	return nil
}

func (h *AdminHandlers) updateFlightStatus(ctx context.Context) error {
	flightNumber, err := h.app.console.Prompt("Enter Flight Number: ")
	if err != nil {
		return err
	}
	status, err := h.app.console.Prompt("New status (Scheduled/Delayed/Canceled/Completed): ")
	if err != nil {
		return err
	}
	if err := h.app.svc.Flights.UpdateFlightStatus(ctx, flightNumber, status); err != nil {
		return err
	}
	h.record(ctx, "Updated flight status", "Flight Number: "+flightNumber+", Status: "+status)
	h.app.console.Println("Flight status updated.")
	return nil
}

func (h *AdminHandlers) deleteFlight(ctx context.Context) error {
	flightNumber, err := h.app.console.Prompt("Enter Flight Number to delete: ")
	if err != nil {
		return err
	}
	ok, err := h.app.console.Confirm("Delete flight " + flightNumber + " and cancel its reservations?")
	if err != nil || !ok {
		return err
	}
	canceled, err := h.app.svc.Booking.DeleteFlight(ctx, flightNumber)
	if err != nil {
		return err
	}
	h.record(ctx, "Deleted flight", "Flight Number: "+flightNumber)
	h.app.console.Printf("Flight %s deleted. %d reservation(s) canceled.\n", flightNumber, len(canceled))
	return nil
}

func (h *AdminHandlers) viewFlights(ctx context.Context) error {
	flights, err := h.app.svc.Flights.ListFlights(ctx)
	if err != nil {
		return err
	}
	h.app.printFlights(flights)
	return nil
}

func (h *AdminHandlers) assignCrew(ctx context.Context) error {
	c := h.app.console
	flightNumber, err := c.Prompt("Enter Flight Number: ")
	if err != nil {
		return err
	}
	roster, err := h.app.svc.Crew.Roster(ctx)
	if err != nil {
		return err
	}

	c.Println("--- Crew Assignments ---\nAvailable Pilots:")
	for _, p := range roster.Pilots {
		c.Printf("%s - %s (%.0f hours flown)\n", p.ID, p.Name, p.TotalFlightHours)
	}
	pilotID, err := c.Prompt("Select Pilot by ID (empty to skip): ")
	if err != nil {
		return err
	}

	c.Println("\nAvailable Flight Attendants:")
	for _, fa := range roster.FlightAttendants {
		c.Printf("%s - %s (%.0f hours flown)\n", fa.ID, fa.Name, fa.TotalFlightHours)
	}
	ids, err := c.Prompt("Select Flight Attendants by IDs (comma-separated, e.g., FA101,FA102): ")
	if err != nil {
		return err
	}
	var attendantIDs []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			attendantIDs = append(attendantIDs, id)
		}
	}

	result, err := h.app.svc.Crew.AssignCrewToFlight(ctx, flightNumber, pilotID, attendantIDs)
	if err != nil {
		return err
	}
	if result.PilotKept {
		c.Printf("A pilot is already assigned to flight %s.\n", flightNumber)
	}
	for id, reason := range result.Rejected {
		c.Printf("Flight attendant %s not assigned: %s\n", id, reason)
	}
	h.record(ctx, "Assigned crew", "Flight Number: "+flightNumber)
	c.Println("Crew assignment saved.")
	return nil
}

func (h *AdminHandlers) viewCrew(ctx context.Context) error {
	flightNumber, err := h.app.console.Prompt("Enter Flight Number: ")
	if err != nil {
		return err
	}
	crew, err := h.app.svc.Crew.CrewForFlight(ctx, flightNumber)
	if err != nil {
		return err
	}
	if len(crew) == 0 {
		h.app.console.Println("No crew assigned to this flight.")
		return nil
	}
	for _, m := range crew {
		h.app.console.Printf("%s - %s (%s)\n", m.ID, m.Name, m.Role)
	}
	return nil
}

func (h *AdminHandlers) manageAircraft(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Manage Aircraft", []string{
			"Add Aircraft",
			"Update Aircraft",
			"Delete Aircraft",
			"View All Aircraft",
			"Schedule Maintenance",
			"Add Maintenance Log",
			"Back",
		})
		if err != nil {
			return err
		}

		var action func() error
		switch choice {
		case 1:
			action = func() error { return h.addAircraft(ctx) }
		case 2:
			action = func() error { return h.updateAircraft(ctx) }
		case 3:
			action = func() error { return h.deleteAircraft(ctx) }
		case 4:
			action = func() error { return h.viewAircraft(ctx) }
		case 5:
			action = func() error { return h.maintenance(ctx, true) }
		case 6:
			action = func() error { return h.maintenance(ctx, false) }
		case 7:
			return nil
		}
		if err := h.app.perform(h.user, services.CapManageAircraft, action); err != nil {
			return err
		}
	}
}

func (h *AdminHandlers) promptAircraftFields(a *models.Aircraft) error {
	c := h.app.console
	var err error
	if a.Type, err = c.PromptDefault("Type", a.Type); err != nil {
		return err
	}
	capacity, err := c.PromptDefault("Capacity", fmt.Sprint(a.Capacity))
	if err != nil {
		return err
	}
	if _, err := fmt.Sscanf(capacity, "%d", &a.Capacity); err != nil || a.Capacity < 0 {
		return fmt.Errorf("invalid capacity %q", capacity)
	}
	if a.MaintenanceDue, err = c.PromptDefault("Maintenance due (YYYY-MM-DD)", a.MaintenanceDue); err != nil {
		return err
	}
	a.Status, err = c.PromptDefault("Status", a.Status)
	return err
}

func (h *AdminHandlers) addAircraft(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter Aircraft ID: ")
	if err != nil {
		return err
	}
	a := models.Aircraft{AircraftID: id, Status: "Active"}
	if err := h.promptAircraftFields(&a); err != nil {
		return err
	}
	if err := h.app.svc.Aircraft.AddAircraft(ctx, a); err != nil {
		return err
	}
	h.record(ctx, "Added aircraft", "Aircraft ID: "+id)
	h.app.console.Printf("Aircraft %s added successfully.\n", id)
	return nil
}

func (h *AdminHandlers) updateAircraft(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter Aircraft ID to update: ")
	if err != nil {
		return err
	}
	current, err := h.app.svc.Aircraft.FindAircraft(ctx, id)
	if err != nil {
		return err
	}
	updated := *current
	if err := h.promptAircraftFields(&updated); err != nil {
		return err
	}
	if err := h.app.svc.Aircraft.UpdateAircraft(ctx, id, updated); err != nil {
		return err
	}
	h.record(ctx, "Updated aircraft", "Aircraft ID: "+id)
	h.app.console.Printf("Aircraft %s updated successfully.\n", id)
	return nil
}

func (h *AdminHandlers) deleteAircraft(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter Aircraft ID to delete: ")
	if err != nil {
		return err
	}
	if err := h.app.svc.Aircraft.DeleteAircraft(ctx, id); err != nil {
		return err
	}
	h.record(ctx, "Deleted aircraft", "Aircraft ID: "+id)
	h.app.console.Printf("Aircraft %s deleted.\n", id)
	return nil
}

func (h *AdminHandlers) viewAircraft(ctx context.Context) error {
	fleet, err := h.app.svc.Aircraft.ListAircraft(ctx)
	if err != nil {
		return err
	}
	if len(fleet) == 0 {
		h.app.console.Println("No aircraft available.")
		return nil
	}
	for _, a := range fleet {
		h.app.console.Printf("%-8s %-20s capacity %4d  maintenance due %s  %s\n",
			a.AircraftID, a.Type, a.Capacity, a.MaintenanceDue, a.Status)
	}
	return nil
}

// maintenance schedules future maintenance or logs performed maintenance
func (h *AdminHandlers) maintenance(ctx context.Context, schedule bool) error {
	c := h.app.console
	id, err := c.Prompt("Enter Aircraft ID: ")
	if err != nil {
		return err
	}
	date, err := c.Prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	description, err := c.Prompt("Description: ")
	if err != nil {
		return err
	}

	if schedule {
		if err := h.app.svc.Aircraft.ScheduleMaintenance(ctx, id, date, description); err != nil {
			return err
		}
		h.record(ctx, "Scheduled maintenance", "Aircraft ID: "+id+", Date: "+date)
		c.Println("Maintenance scheduled.")
		return nil
	}
	if err := h.app.svc.Aircraft.AddMaintenanceLog(ctx, id, date, description); err != nil {
		return err
	}
	h.record(ctx, "Added maintenance log", "Aircraft ID: "+id+", Date: "+date)
	c.Println("Maintenance log added.")
	return nil
}

func (h *AdminHandlers) manageUsers(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Manage Users", []string{
			"Add User",
			"Update User",
			"Delete User",
			"View All Users",
			"Back",
		})
		if err != nil {
			return err
		}

		var action func() error
		switch choice {
		case 1:
			action = func() error { return h.addUser(ctx) }
		case 2:
			action = func() error { return h.updateUser(ctx) }
		case 3:
			action = func() error { return h.deleteUser(ctx) }
		case 4:
			action = func() error { return h.viewUsers(ctx) }
		case 5:
			return nil
		}
		if err := h.app.perform(h.user, services.CapManageUsers, action); err != nil {
			return err
		}
	}
}

func (h *AdminHandlers) promptUserFields(u *models.User) error {
	c := h.app.console
	var err error
	if u.Username, err = c.PromptDefault("Username", u.Username); err != nil {
		return err
	}
	password, err := c.PromptPassword("Password (empty keeps current): ")
	if err != nil {
		return err
	}
	if password != "" {
		u.Password = password
	}
	u.Role, err = c.PromptDefault("Role (Administrator/Booking Agent/Passenger)", u.Role)
	return err
}

func (h *AdminHandlers) addUser(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter User ID: ")
	if err != nil {
		return err
	}
	u := models.User{ID: id, Role: models.RolePassenger}
	if err := h.promptUserFields(&u); err != nil {
		return err
	}
	if err := h.app.svc.Users.CreateUser(ctx, u); err != nil {
		return err
	}
	h.record(ctx, "Created user", "Username: "+u.Username+", Role: "+u.Role)
	h.app.console.Printf("User %s has been successfully added\n", u.Username)
	return nil
}

func (h *AdminHandlers) updateUser(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter User ID to update: ")
	if err != nil {
		return err
	}
	current, err := h.app.svc.Users.FindUser(ctx, id)
	if err != nil {
		return err
	}
	updated := *current
	if err := h.promptUserFields(&updated); err != nil {
		return err
	}
	if err := h.app.svc.Users.UpdateUser(ctx, id, updated); err != nil {
		return err
	}
	h.record(ctx, "Updated user", "User ID: "+id)
	h.app.console.Printf("User with ID: %s updated successfully.\n", id)
	return nil
}

func (h *AdminHandlers) deleteUser(ctx context.Context) error {
	id, err := h.app.console.Prompt("Enter User ID to delete: ")
	if err != nil {
		return err
	}
	if id == h.user.ID {
		return fmt.Errorf("cannot delete the logged in user: %w", models.ErrPermissionDenied)
	}
	if err := h.app.svc.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	h.record(ctx, "Deleted user", "User ID: "+id)
	h.app.console.Printf("User with ID: %s deleted successfully.\n", id)
	return nil
}

func (h *AdminHandlers) viewUsers(ctx context.Context) error {
	users, err := h.app.svc.Users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		h.app.console.Printf("%-8s %-20s %s\n", u.ID, u.Username, u.Role)
	}
	return nil
}

func (h *AdminHandlers) reportsMenu(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Reports", []string{
			"Flight Performance Report",
			"Maintenance Report",
			"User Activity Report",
			"Back",
		})
		if err != nil {
			return err
		}

		var action func() error
		switch choice {
		case 1:
			action = func() error { return h.flightPerformanceReport(ctx) }
		case 2:
			action = func() error { return h.maintenanceReport(ctx) }
		case 3:
			action = func() error { return h.userActivityReport(ctx) }
		case 4:
			return nil
		}
		if err := h.app.perform(h.user, services.CapViewReports, action); err != nil {
			return err
		}
	}
}

func (h *AdminHandlers) flightPerformanceReport(ctx context.Context) error {
	c := h.app.console
	month, err := c.Prompt("Month (MM): ")
	if err != nil {
		return err
	}
	year, err := c.Prompt("Year (YYYY): ")
	if err != nil {
		return err
	}
	if len(month) == 1 {
		month = "0" + month
	}

	report, err := h.app.svc.Reports.FlightPerformanceReport(ctx, month, year)
	if err != nil {
		return err
	}
	c.Printf("Flight Performance Report for %s-%s\n", report.Month, report.Year)
	c.Println("----------------------------------------")
	c.Printf("Total Flights Scheduled: %d\n", report.TotalScheduled)
	c.Printf("Flights Completed: %d\n", report.Completed)
	c.Printf("Flights Delayed: %d\n", report.Delayed)
	c.Printf("Flights Canceled: %d\n", report.Canceled)
	c.Printf("Total Reservations Made: %d\n", report.TotalReservations)
	c.Printf("Total Revenue: $%.2f\n", report.TotalRevenue)
	c.Println("----------------------------------------")
	for i, f := range report.Flights {
		switch f.Status {
		case models.FlightStatusCompleted, models.FlightStatusDelayed:
			c.Printf("%d. Flight %s: %s (%d bookings, $%.2f)\n", i+1, f.FlightNumber, f.Status, f.Reservations, f.Revenue)
		case models.FlightStatusCanceled:
			c.Printf("%d. Flight %s: %s\n", i+1, f.FlightNumber, f.Status)
		}
	}
	h.record(ctx, "Generated flight performance report", month+"-"+year)
	return nil
}

func (h *AdminHandlers) maintenanceReport(ctx context.Context) error {
	c := h.app.console
	id, err := c.Prompt("Enter Aircraft ID: ")
	if err != nil {
		return err
	}
	report, err := h.app.svc.Reports.MaintenanceReport(ctx, id)
	if err != nil {
		return err
	}
	c.Printf("Maintenance Report for Aircraft %s\n", report.Aircraft.AircraftID)
	c.Println("----------------------------------------")
	c.Println("Maintenance Logs:")
	for _, l := range report.Logs {
		c.Printf("- Date: %s, Description: %s\n", l.Date, l.Description)
	}
	c.Println("----------------------------------------")
	c.Println("Maintenance Schedule:")
	for _, s := range report.Schedule {
		c.Printf("- %s: %s\n", s.Date, s.Description)
	}
	c.Println("----------------------------------------")
	c.Printf("Utilization: %.0f hours\n", report.Utilization)
	h.record(ctx, "Generated maintenance report", "Aircraft ID: "+id)
	return nil
}

func (h *AdminHandlers) userActivityReport(ctx context.Context) error {
	c := h.app.console
	userID, err := c.Prompt("User ID (empty for all users): ")
	if err != nil {
		return err
	}
	entries, err := h.app.svc.Reports.UserActivityReport(ctx, userID)
	if err != nil {
		return err
	}
	if userID == "" {
		c.Println("System-Wide User Activity Report")
	} else {
		c.Printf("Activity Report for User ID: %s\n", userID)
	}
	c.Println("----------------------------------------")
	if len(entries) == 0 {
		c.Println("No activities found.")
	}
	for _, e := range entries {
		if userID == "" {
			c.Printf("User ID: %s\n", e.UserID)
		}
		c.Printf("Action: %s\nTimestamp: %s\nDetails: %s\n", e.Action, e.Timestamp, e.Details)
		c.Println("----------------------------------------")
	}
	return nil
}
