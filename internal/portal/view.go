package portal

import "fmt"

// View selects the top-level screen
type View string

const (
	ViewHome            View = "home"
	ViewChat            View = "chat"
	ViewAppointment     View = "appointment"
	ViewNews            View = "news"
	ViewDoctorRegister  View = "doctor-register"
	ViewDoctorDashboard View = "doctor-dashboard"
)

var views = map[View]struct{}{
	ViewHome:            {},
	ViewChat:            {},
	ViewAppointment:     {},
	ViewNews:            {},
	ViewDoctorRegister:  {},
	ViewDoctorDashboard: {},
}

// ParseView validates a view name coming from a request
func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := views[v]; !ok {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

// MenuItem is one header navigation entry
type MenuItem struct {
	View   View
	Label  string
	Active bool
	Doctor bool // drawn after the separator with the doctor accent
}

var patientMenu = []MenuItem{
	{View: ViewHome, Label: "Home"},
	{View: ViewChat, Label: "Medical Chat"},
	{View: ViewAppointment, Label: "Book Appointment"},
	{View: ViewNews, Label: "Medical News"},
}
