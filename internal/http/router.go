package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// RouterConfig carries what the router needs besides the handler
type RouterConfig struct {
	CookieName   string
	SecureCookie bool
	Metrics      HTTPMetricsRecorder
}

// SetupRouter initializes all routes of the portal
func SetupRouter(h *Handler, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("medgpt-portal"))
	r.Use(LoggingMiddleware(cfg.Metrics))

	// Public health endpoint
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Everything else belongs to a device
	app := r.NewRoute().Subrouter()
	app.Use(DeviceMiddleware(cfg.CookieName, cfg.SecureCookie))

	app.HandleFunc("/", h.PageLoad).Methods("GET")
	app.HandleFunc("/app", h.Render).Methods("GET")
	app.HandleFunc("/navigate", h.Navigate).Methods("POST")
	app.HandleFunc("/logout", h.Logout).Methods("POST")
	app.HandleFunc("/notice/dismiss", h.DismissNotice).Methods("POST")

	// Chat
	app.HandleFunc("/chat/messages", h.SendChat).Methods("POST")
	app.HandleFunc("/chat/prefill", h.PrefillChat).Methods("POST")
	app.HandleFunc("/chat/clear", h.ClearChat).Methods("POST")

	// Appointment booking
	app.HandleFunc("/appointment/doctor", h.SelectDoctor).Methods("POST")
	app.HandleFunc("/appointment/book", h.BookAppointment).Methods("POST")
	app.HandleFunc("/appointment/doctors/reload", h.ReloadDoctors).Methods("POST")

	// Doctor portal
	app.HandleFunc("/doctor/mode", h.SetAuthMode).Methods("POST")
	app.HandleFunc("/doctor/login", h.DoctorLogin).Methods("POST")
	app.HandleFunc("/doctor/register", h.DoctorRegister).Methods("POST")

	// Doctor dashboard
	app.HandleFunc("/dashboard/tab", h.SetDashboardTab).Methods("POST")
	app.HandleFunc("/dashboard/appointments/reload", h.ReloadAppointments).Methods("POST")
	app.HandleFunc("/dashboard/appointments/{id}/status", h.UpdateAppointmentStatus).Methods("POST")
	app.HandleFunc("/dashboard/profile/edit", h.EditProfile).Methods("POST")
	app.HandleFunc("/dashboard/profile/cancel", h.CancelProfileEdit).Methods("POST")
	app.HandleFunc("/dashboard/profile", h.SaveProfile).Methods("POST")

	// Medical news
	app.HandleFunc("/news/refresh", h.RefreshNews).Methods("POST")
	app.HandleFunc("/news/reload", h.ReloadNews).Methods("POST")

	return r
}

// NewServerHandler wraps the router with CORS so preflight requests are
// answered before route matching
func NewServerHandler(router *mux.Router, allowedOrigins []string) http.Handler {
	return CORSMiddleware(allowedOrigins)(router)
}
