package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/notice"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/testutil"
)

func sampleForm() Form {
	return Form{
		PatientName:     "John Doe",
		PatientEmail:    "john@example.com",
		PatientPhone:    "555-0100",
		AppointmentDate: "2030-05-01",
		AppointmentTime: "10:30",
		Reason:          "Chest pain",
	}
}

func newPanel(t *testing.T) (*Panel, *testutil.FakeBackend, *testutil.MockPublisher) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	fb.Doctors = []api.Doctor{
		{ID: 1, Name: "Ada Lovelace", Specialization: "Cardiology", ExperienceYears: 12, ConsultationFee: 500},
		{ID: 2, Name: "John Watson", Specialization: "General Medicine"},
	}
	pub := testutil.NewMockPublisher()
	return NewPanel(fb.Client(), pub, nil), fb, pub
}

func TestGenerateTimeSlots(t *testing.T) {
	slots := GenerateTimeSlots()

	if len(slots) != 17 {
		t.Fatalf("Expected 17 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" || slots[16] != "17:00" {
		t.Errorf("Expected 09:00..17:00, got %s..%s", slots[0], slots[16])
	}
	for i := 1; i < len(slots); i++ {
		prev, _ := time.Parse("15:04", slots[i-1])
		cur, _ := time.Parse("15:04", slots[i])
		if cur.Sub(prev) != 30*time.Minute {
			t.Errorf("Expected 30 minute step between %s and %s", slots[i-1], slots[i])
		}
	}
}

func TestMinDate(t *testing.T) {
	now := time.Date(2031, 2, 3, 23, 0, 0, 0, time.UTC)
	if got := MinDate(now); got != "2031-02-03" {
		t.Errorf("Expected 2031-02-03, got %s", got)
	}
}

func TestLoadDoctors(t *testing.T) {
	p, _, _ := newPanel(t)
	p.LoadDoctors(context.Background())

	state := p.Snapshot()
	if len(state.Doctors) != 2 || state.Loading {
		t.Errorf("Unexpected state after load: %+v", state)
	}
}

func TestLoadDoctors_Failure(t *testing.T) {
	p, fb, _ := newPanel(t)
	fb.Fail(testutil.RouteListDoctors, http.StatusInternalServerError, "")

	p.LoadDoctors(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Error("Failed to load doctors. Please refresh the page.") {
		t.Errorf("Unexpected notice: %+v", state.Notice)
	}

	fb.Recover(testutil.RouteListDoctors)
	p.LoadDoctors(context.Background())
	if len(p.Snapshot().Doctors) != 2 {
		t.Error("Expected manual reload to populate the roster")
	}
}

func TestSubmit_WithoutDoctorIsRejected(t *testing.T) {
	p, fb, _ := newPanel(t)
	p.LoadDoctors(context.Background())
	callsBefore := fb.TotalCalls()

	p.UpdateForm(sampleForm())
	p.Submit(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Error("Please select a doctor") {
		t.Errorf("Unexpected notice: %+v", state.Notice)
	}
	if state.Form != sampleForm() {
		t.Errorf("Expected form untouched, got %+v", state.Form)
	}
	if fb.TotalCalls() != callsBefore {
		t.Error("Expected no network call")
	}
}

func TestSubmit_ServerErrorKeepsForm(t *testing.T) {
	p, fb, pub := newPanel(t)
	fb.Fail(testutil.RouteBook, http.StatusConflict, "Slot already booked")

	p.SelectDoctor(1)
	p.UpdateForm(sampleForm())
	p.Submit(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Error("Slot already booked") {
		t.Errorf("Expected server message verbatim, got %+v", state.Notice)
	}
	if state.Form != sampleForm() || state.SelectedDoctor != 1 {
		t.Errorf("Expected form and selection kept, got %+v", state)
	}
	if state.Submitting {
		t.Error("Expected submitting flag cleared")
	}
	pub.AssertEventCount(t, messaging.EventAppointmentBooked, 0)
}

func TestSubmit_GenericFailure(t *testing.T) {
	p, fb, _ := newPanel(t)
	fb.Fail(testutil.RouteBook, http.StatusInternalServerError, "")

	p.SelectDoctor(1)
	p.Submit(context.Background())

	if got := p.Snapshot().Notice.Text; got != "Failed to book appointment. Please try again." {
		t.Errorf("Unexpected notice: %s", got)
	}
}

func TestSubmit_SuccessResetsForm(t *testing.T) {
	p, fb, pub := newPanel(t)

	p.SelectDoctor(1)
	p.UpdateForm(sampleForm())
	p.Submit(context.Background())

	state := p.Snapshot()
	want := "Appointment booked successfully with Dr. Ada Lovelace on 2030-05-01 at 10:30"
	if state.Notice != notice.Success(want) {
		t.Errorf("Unexpected notice: %+v", state.Notice)
	}
	if state.Form != (Form{}) || state.SelectedDoctor != 0 {
		t.Errorf("Expected form reset, got %+v", state)
	}
	if len(fb.Bookings) != 1 || fb.Bookings[0].Reason != "Chest pain" || fb.Bookings[0].DoctorID != 1 {
		t.Errorf("Unexpected booking sent: %+v", fb.Bookings)
	}

	var event messaging.AppointmentBookedEvent
	pub.LastEvent(t, messaging.EventAppointmentBooked).Decode(t, &event)
	if event.Data.DoctorID != 1 || event.Data.AppointmentTime != "10:30" {
		t.Errorf("Unexpected event: %+v", event.Data)
	}
}

func TestDismissNotice(t *testing.T) {
	p, _, _ := newPanel(t)
	p.Submit(context.Background())
	p.DismissNotice()
	if p.Snapshot().Notice.Visible() {
		t.Error("Expected notice to be dismissed")
	}
}
