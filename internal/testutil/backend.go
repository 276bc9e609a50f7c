package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/gorilla/mux"
)

// Route keys understood by FakeBackend.Fail and FakeBackend.CallCount
const (
	RouteListDoctors       = "GET /api/doctors"
	RouteBook              = "POST /api/book"
	RouteChat              = "POST /api/chat"
	RouteGetProfile        = "GET /api/doctor/profile"
	RouteUpdateProfile     = "PUT /api/doctor/profile"
	RouteListAppointments  = "GET /api/appointments"
	RouteUpdateAppointment = "PUT /api/appointments"
	RouteLogin             = "POST /api/doctor/login"
	RouteRegister          = "POST /api/doctor/register"
	RouteNews              = "GET /api/news"
)

// FailResponse is the canned error a route answers with
type FailResponse struct {
	Status int
	Error  string // empty omits the error field
}

// FakeAccount is a doctor able to log in against FakeBackend
type FakeAccount struct {
	Password string
	Doctor   api.DoctorSession
}

// FakeBackend is an in-memory stand-in for the MedGPT backend API.
// It stores all data in memory and records every call per route.
type FakeBackend struct {
	Server *httptest.Server

	mu            sync.Mutex
	Doctors       []api.Doctor
	Profiles      map[int]api.Doctor
	Appointments  []api.Appointment
	Articles      []api.NewsArticle
	NewsStatus    string
	ChatReply     string
	Accounts      map[string]FakeAccount
	Registrations []api.Registration
	Bookings      []api.BookingRequest
	ChatRequests  []api.ChatRequest
	ProfileWrites []api.ProfileUpdate

	fail  map[string]FailResponse
	calls map[string]int
}

// NewFakeBackend starts a fake backend that is closed when the test ends
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		Profiles:   make(map[int]api.Doctor),
		Accounts:   make(map[string]FakeAccount),
		NewsStatus: "ok",
		ChatReply:  "Please stay hydrated and rest.",
		fail:       make(map[string]FailResponse),
		calls:      make(map[string]int),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/doctors", fb.route(RouteListDoctors, fb.listDoctors)).Methods("GET")
	r.HandleFunc("/api/book", fb.route(RouteBook, fb.book)).Methods("POST")
	r.HandleFunc("/api/chat", fb.route(RouteChat, fb.chat)).Methods("POST")
	r.HandleFunc("/api/doctor/profile/{id}", fb.route(RouteGetProfile, fb.getProfile)).Methods("GET")
	r.HandleFunc("/api/doctor/profile/{id}", fb.route(RouteUpdateProfile, fb.updateProfile)).Methods("PUT")
	r.HandleFunc("/api/appointments", fb.route(RouteListAppointments, fb.listAppointments)).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", fb.route(RouteUpdateAppointment, fb.updateAppointment)).Methods("PUT")
	r.HandleFunc("/api/doctor/login", fb.route(RouteLogin, fb.login)).Methods("POST")
	r.HandleFunc("/api/doctor/register", fb.route(RouteRegister, fb.register)).Methods("POST")
	r.HandleFunc("/api/news", fb.route(RouteNews, fb.news)).Methods("GET")

	fb.Server = httptest.NewServer(r)
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the base URL of the fake backend
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// Client returns an api.Client pointed at the fake backend
func (fb *FakeBackend) Client() *api.Client {
	return api.NewClientWithHTTP(fb.Server.URL, fb.Server.Client())
}

// Fail makes route answer with the given status and error message
func (fb *FakeBackend) Fail(route string, status int, message string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fail[route] = FailResponse{Status: status, Error: message}
}

// Recover removes a canned failure from route
func (fb *FakeBackend) Recover(route string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	delete(fb.fail, route)
}

// CallCount returns how many requests route received
func (fb *FakeBackend) CallCount(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

// TotalCalls returns how many requests the backend received on any route
func (fb *FakeBackend) TotalCalls() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	total := 0
	for _, n := range fb.calls {
		total += n
	}
	return total
}

// AddAccount registers a doctor who can log in with password
func (fb *FakeBackend) AddAccount(doctor api.DoctorSession, password string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.Accounts[doctor.Email] = FakeAccount{Password: password, Doctor: doctor}
}

// AppointmentStatus returns the stored status of an appointment
func (fb *FakeBackend) AppointmentStatus(id int) api.AppointmentStatus {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, a := range fb.Appointments {
		if a.ID == id {
			return a.Status
		}
	}
	return ""
}

func (fb *FakeBackend) route(key string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.calls[key]++
		failure, failing := fb.fail[key]
		fb.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.Status)
			if failure.Error != "" {
				json.NewEncoder(w).Encode(map[string]string{"error": failure.Error})
			} else {
				w.Write([]byte(`{}`))
			}
			return
		}
		next(w, r)
	}
}

func (fb *FakeBackend) listDoctors(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	doctors := append([]api.Doctor{}, fb.Doctors...)
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"doctors": doctors})
}

func (fb *FakeBackend) book(w http.ResponseWriter, r *http.Request) {
	var req api.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	var doctor *api.Doctor
	for i := range fb.Doctors {
		if fb.Doctors[i].ID == req.DoctorID {
			doctor = &fb.Doctors[i]
			break
		}
	}
	if doctor == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Doctor not found or not verified"})
		return
	}

	fb.Bookings = append(fb.Bookings, req)
	id := len(fb.Appointments) + 1
	fb.Appointments = append(fb.Appointments, api.Appointment{
		ID:              id,
		DoctorID:        req.DoctorID,
		DoctorName:      doctor.Name,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          api.StatusPending,
	})

	writeJSON(w, http.StatusCreated, api.BookingConfirmation{
		Message:         "Appointment booked successfully",
		AppointmentID:   id,
		DoctorName:      doctor.Name,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          "pending",
	})
}

func (fb *FakeBackend) chat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	fb.mu.Lock()
	fb.ChatRequests = append(fb.ChatRequests, req)
	reply := fb.ChatReply
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, api.ChatReply{Response: reply})
}

func (fb *FakeBackend) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	fb.mu.Lock()
	doctor, ok := fb.Profiles[id]
	fb.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Doctor not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"doctor": doctor})
}

func (fb *FakeBackend) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req api.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.ProfileWrites = append(fb.ProfileWrites, req)
	doctor := fb.Profiles[id]
	doctor.ID = id
	doctor.Name = req.Name
	doctor.Phone = &req.Phone
	doctor.Bio = &req.Bio
	doctor.ExperienceYears = req.ExperienceYears
	doctor.ConsultationFee = req.ConsultationFee
	fb.Profiles[id] = doctor
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

func (fb *FakeBackend) listAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, _ := strconv.Atoi(r.URL.Query().Get("doctor_id"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	fb.mu.Lock()
	var matching []api.Appointment
	for _, a := range fb.Appointments {
		if doctorID == 0 || a.DoctorID == doctorID {
			matching = append(matching, a)
		}
	}
	fb.mu.Unlock()

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(matching) {
		start = len(matching)
	}
	if end > len(matching) {
		end = len(matching)
	}
	items := matching[start:end]
	if items == nil {
		items = []api.Appointment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":         page,
		"per_page":     perPage,
		"total":        len(matching),
		"appointments": items,
	})
}

func (fb *FakeBackend) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req api.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid status"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := range fb.Appointments {
		if fb.Appointments[i].ID == id {
			notes := req.Notes
			fb.Appointments[i].Status = req.Status
			fb.Appointments[i].Notes = &notes
			writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment updated successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Appointment not found"})
}

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	fb.mu.Lock()
	account, ok := fb.Accounts[req.Email]
	fb.mu.Unlock()
	if !ok || account.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"doctor":  account.Doctor,
	})
}

func (fb *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req api.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, exists := fb.Accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
		return
	}
	fb.Registrations = append(fb.Registrations, req)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Doctor registered successfully"})
}

func (fb *FakeBackend) news(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	articles := append([]api.NewsArticle{}, fb.Articles...)
	status := fb.NewsStatus
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"articles": articles,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
