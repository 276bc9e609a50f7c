package http

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/booking"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/dashboard"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/portal"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/workspace"
)

// ErrorResponse is the JSON body of a rejected portal request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler serves the portal pages and form actions
type Handler struct {
	registry  *workspace.Registry
	templates *template.Template
	now       func() time.Time
}

func NewHandler(registry *workspace.Registry) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{registry: registry, templates: tmpl, now: time.Now}, nil
}

// PageLoad is a full reload: the device starts over on the home view with
// its stored session.
func (h *Handler) PageLoad(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := DeviceFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_device", "Device cookie is required")
		return
	}
	h.render(w, r, h.registry.Open(r.Context(), deviceID))
}

// Render shows the device's workspace as it is
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	h.render(w, r, ws)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"service":    "medgpt-portal",
		"workspaces": h.registry.Len(),
	})
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		v, err := portal.ParseView(r.FormValue("view"))
		if err != nil {
			log.Printf("[WARN] navigate ignored: %v", err)
			return
		}
		ws.App.Navigate(v)
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if err := ws.App.Logout(r.Context()); err != nil {
			log.Printf("[ERROR] logout: %v", err)
		}
	})
}

func (h *Handler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		ws.DismissNotice()
	})
}

func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if c := ws.Chat(); c != nil {
			c.Send(r.Context(), r.FormValue("message"))
		}
	})
}

func (h *Handler) PrefillChat(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if c := ws.Chat(); c != nil {
			c.Prefill(r.FormValue("prompt"))
		}
	})
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if c := ws.Chat(); c != nil {
			c.Clear()
		}
	})
}

// SelectDoctor keeps whatever the patient already typed into the form
func (h *Handler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		b := ws.Booking()
		if b == nil {
			return
		}
		b.UpdateForm(bookingForm(r))
		if id, err := strconv.Atoi(r.FormValue("doctor_id")); err == nil {
			b.SelectDoctor(id)
		}
	})
}

func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if b := ws.Booking(); b != nil {
			b.UpdateForm(bookingForm(r))
			b.Submit(r.Context())
		}
	})
}

func (h *Handler) ReloadDoctors(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if b := ws.Booking(); b != nil {
			b.LoadDoctors(r.Context())
		}
	})
}

func (h *Handler) SetAuthMode(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if a := ws.DoctorAuth(); a != nil {
			a.SetMode(doctorauth.ParseMode(r.FormValue("mode")))
		}
	})
}

func (h *Handler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		a := ws.DoctorAuth()
		if a == nil {
			return
		}
		a.UpdateLogin(doctorauth.LoginForm{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		})
		a.SubmitLogin(r.Context())
	})
}

func (h *Handler) DoctorRegister(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		a := ws.DoctorAuth()
		if a == nil {
			return
		}
		a.UpdateRegister(doctorauth.RegisterForm{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			Specialization:  r.FormValue("specialization"),
			LicenseNumber:   r.FormValue("license_number"),
			Phone:           r.FormValue("phone"),
			Bio:             r.FormValue("bio"),
			ExperienceYears: r.FormValue("experience_years"),
			ConsultationFee: r.FormValue("consultation_fee"),
		})
		a.SubmitRegister(r.Context())
	})
}

func (h *Handler) SetDashboardTab(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.SetTab(dashboard.ParseTab(r.FormValue("tab")))
		}
	})
}

func (h *Handler) ReloadAppointments(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.LoadAppointments(r.Context())
		}
	})
}

func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Appointment id must be a number")
		return
	}
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.UpdateStatus(r.Context(), id, api.AppointmentStatus(r.FormValue("status")), r.FormValue("notes"))
		}
	})
}

func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.StartEditing()
		}
	})
}

func (h *Handler) CancelProfileEdit(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.CancelEditing()
		}
	})
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if d := ws.Dashboard(); d != nil {
			d.SaveProfile(r.Context(), dashboard.Profile{
				Name:            r.FormValue("name"),
				Phone:           r.FormValue("phone"),
				Bio:             r.FormValue("bio"),
				ExperienceYears: doctorauth.ParseInt(r.FormValue("experience_years")),
				ConsultationFee: doctorauth.ParseFloat(r.FormValue("consultation_fee")),
			})
		}
	})
}

func (h *Handler) RefreshNews(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if n := ws.News(); n != nil {
			n.Refresh(r.Context())
		}
	})
}

func (h *Handler) ReloadNews(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ws *workspace.Workspace) {
		if n := ws.News(); n != nil {
			n.Load(r.Context())
		}
	})
}

// act parses the form, applies fn to the device's workspace and sends the
// browser back to the rendered page. Panels not mounted for the current
// screen are not touched.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, fn func(ws *workspace.Workspace)) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid form data: "+err.Error())
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	ws.Sync(r.Context())
	fn(ws)
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

func (h *Handler) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	deviceID, ok := DeviceFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_device", "Device cookie is required")
		return nil, false
	}
	return h.registry.Get(r.Context(), deviceID), true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	screen := ws.Sync(r.Context())
	data := buildPage(ws, screen, h.now())

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[ERROR] failed to render %s: %v", screen, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func bookingForm(r *http.Request) booking.Form {
	return booking.Form{
		PatientName:     r.FormValue("patient_name"),
		PatientEmail:    r.FormValue("patient_email"),
		PatientPhone:    r.FormValue("patient_phone"),
		AppointmentDate: r.FormValue("appointment_date"),
		AppointmentTime: r.FormValue("appointment_time"),
		Reason:          r.FormValue("reason"),
	}
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}
