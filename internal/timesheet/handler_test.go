package timesheet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/timesheet"
)

// stubTimesheetService records the last call and replies with canned values,
// so these specs only exercise the HTTP layer: routing, decoding, actor
// extraction and error-to-status mapping.
type stubTimesheetService struct {
	sheet      *timesheet.Timesheet
	entries    []timesheet.ListEntry
	hours      []timesheet.HoursEntry
	err        error
	lastID     int64
	lastAction string
	lastReject timesheet.RejectDTO
	lastUpsert timesheet.UpsertTaskHoursDTO
}

func (s *stubTimesheetService) Create(actor internal.Actor, dto timesheet.CreateTimesheetDTO) (*timesheet.Timesheet, error) {
	s.lastAction = "create"
	return s.sheet, s.err
}

func (s *stubTimesheetService) Get(actor internal.Actor, id int64) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "get", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) Update(actor internal.Actor, id int64, dto timesheet.UpdateTimesheetDTO) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "update", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) Delete(actor internal.Actor, id int64) error {
	s.lastAction, s.lastID = "delete", id
	return s.err
}

func (s *stubTimesheetService) ListForOwner(actor internal.Actor) ([]timesheet.Timesheet, error) {
	s.lastAction = "list"
	if s.sheet == nil {
		return nil, s.err
	}
	return []timesheet.Timesheet{*s.sheet}, s.err
}

func (s *stubTimesheetService) ListForApprover(actor internal.Actor, status string) ([]timesheet.ListEntry, error) {
	s.lastAction = "pending:" + status
	return s.entries, s.err
}

func (s *stubTimesheetService) SubmitForApproval(ctx context.Context, actor internal.Actor, id int64) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "submit", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) Approve(ctx context.Context, actor internal.Actor, id int64) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "approve", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) Reject(ctx context.Context, actor internal.Actor, id int64, dto timesheet.RejectDTO) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID, s.lastReject = "reject", id, dto
	return s.sheet, s.err
}

func (s *stubTimesheetService) Recall(ctx context.Context, actor internal.Actor, id int64) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "recall", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) AcceptRecall(ctx context.Context, actor internal.Actor, id int64) (*timesheet.Timesheet, error) {
	s.lastAction, s.lastID = "accept_recall", id
	return s.sheet, s.err
}

func (s *stubTimesheetService) UpsertTaskHours(actor internal.Actor, timesheetID int64, dto timesheet.UpsertTaskHoursDTO) error {
	s.lastAction, s.lastID, s.lastUpsert = "upsert_hours", timesheetID, dto
	return s.err
}

func (s *stubTimesheetService) DeleteTaskHours(actor internal.Actor, hoursID int64) error {
	s.lastAction, s.lastID = "delete_hours", hoursID
	return s.err
}

func (s *stubTimesheetService) ListTaskHours(actor internal.Actor, timesheetID int64) ([]timesheet.HoursEntry, error) {
	s.lastAction, s.lastID = "list_hours", timesheetID
	return s.hours, s.err
}

var _ = Describe("Timesheet Handler", func() {
	var (
		stub    *stubTimesheetService
		handler *timesheet.Handler
		router  *chi.Mux
	)

	actor := internal.Actor{UserID: 2, CompanyID: 10, Role: "Employee"}

	withActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internal.ContextWithActor(r.Context(), actor)))
		})
	}

	BeforeEach(func() {
		stub = &stubTimesheetService{
			sheet: &timesheet.Timesheet{
				ID:       42,
				UserID:   2,
				Name:     "Week 11, 2024 Timesheet",
				Approval: timesheet.StatusDraft,
			},
		}
		handler = timesheet.NewHandler(stub)

		router = chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(withActor)
			r.Post("/timesheets", handler.CreateTimesheet)
			r.Get("/timesheets/pending", handler.ListPendingTimesheets)
			r.Get("/timesheets/{id}", handler.GetTimesheet)
			r.Post("/timesheets/{id}/submit", handler.SubmitTimesheet)
			r.Post("/timesheets/{id}/reject", handler.RejectTimesheet)
			r.Post("/timesheets/{id}/taskhours", handler.UpsertTaskHours)
		})
		router.Get("/anonymous/timesheets/{id}", handler.GetTimesheet)
	})

	It("creates a timesheet and returns 201 with the sheet body", func() {
		req := httptest.NewRequest(http.MethodPost, "/timesheets", strings.NewReader(`{"date":"2024-03-14"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var body timesheet.Timesheet
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Name).To(Equal("Week 11, 2024 Timesheet"))
	})

	It("rejects a malformed JSON body with 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/timesheets", strings.NewReader(`{"date":`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 401 when no actor is on the context", func() {
		req := httptest.NewRequest(http.MethodGet, "/anonymous/timesheets/42", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("parses the id route param", func() {
		req := httptest.NewRequest(http.MethodGet, "/timesheets/42", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.lastID).To(Equal(int64(42)))
	})

	It("rejects a non-numeric id with 400", func() {
		req := httptest.NewRequest(http.MethodGet, "/timesheets/abc", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forwards the status filter on the pending listing", func() {
		stub.entries = []timesheet.ListEntry{{ID: 42, EmployeeName: "Evan Employee"}}
		req := httptest.NewRequest(http.MethodGet, "/timesheets/pending?status=PENDING", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.lastAction).To(Equal("pending:PENDING"))
	})

	It("passes feedback through to the reject operation", func() {
		req := httptest.NewRequest(http.MethodPost, "/timesheets/42/reject", strings.NewReader(`{"feedback":"missing hours"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.lastReject.Feedback).To(Equal("missing hours"))
	})

	It("decodes the task hours batch", func() {
		payload := `{"entries":[{"task_id":7,"values":[8,8,8,8,8,0,0]}]}`
		req := httptest.NewRequest(http.MethodPost, "/timesheets/42/taskhours", strings.NewReader(payload))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(stub.lastUpsert.Entries).To(HaveLen(1))
		Expect(stub.lastUpsert.Entries[0].TaskID).To(Equal(int64(7)))
	})

	Describe("error mapping", func() {
		It("maps a missing sheet to 404 with a stable code", func() {
			stub.err = timesheet.ErrTimesheetNotFound

			req := httptest.NewRequest(http.MethodGet, "/timesheets/42", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))

			var body internal.Response
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Error.Code).To(Equal(internal.ErrCodeTimesheetNotFound))
		})

		It("maps a lost transition race to 409", func() {
			stub.err = timesheet.ErrTransitionConflict

			req := httptest.NewRequest(http.MethodPost, "/timesheets/42/submit", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("maps an illegal lifecycle action to 400", func() {
			stub.err = timesheet.ErrNotSubmittable

			req := httptest.NewRequest(http.MethodPost, "/timesheets/42/submit", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps an approval attempt by the wrong user to 403", func() {
			stub.err = timesheet.ErrNotApprover

			req := httptest.NewRequest(http.MethodPost, "/timesheets/42/reject", strings.NewReader(`{"feedback":"no"}`))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("hides unexpected errors behind a 500", func() {
			stub.err = context.DeadlineExceeded

			req := httptest.NewRequest(http.MethodGet, "/timesheets/42", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
