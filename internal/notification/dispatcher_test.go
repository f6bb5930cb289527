package notification_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timechronos/internal/core/events"
	"github.com/frahmantamala/timechronos/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

// Mailer recording every delivered email
type recordingMailer struct {
	mu   sync.Mutex
	sent []notification.Email
}

func (m *recordingMailer) Send(_ context.Context, email notification.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) all() []notification.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notification.Email, len(m.sent))
	copy(out, m.sent)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Dispatcher", func() {
	var (
		mailer     *recordingMailer
		dispatcher *notification.Dispatcher
	)

	BeforeEach(func() {
		mailer = &recordingMailer{}
		dispatcher = notification.NewDispatcher(notification.DispatcherConfig{MaxWorkers: 2, QueueSize: 16}, mailer, testLogger())
	})

	AfterEach(func() {
		dispatcher.Stop()
	})

	It("should deliver queued emails through the worker pool", func() {
		dispatcher.Enqueue(notification.Email{To: "a@acme.test", Subject: "one"})
		dispatcher.Enqueue(notification.Email{To: "b@acme.test", Subject: "two"})

		Eventually(func() int {
			return len(mailer.all())
		}, time.Second, 10*time.Millisecond).Should(Equal(2))
	})

	It("should never block the caller even under load", func() {
		done := make(chan struct{})
		go func() {
			for i := 0; i < 500; i++ {
				dispatcher.Enqueue(notification.Email{To: "burst@acme.test", Subject: "burst"})
			}
			close(done)
		}()

		Eventually(done, time.Second).Should(BeClosed())
	})
})

var _ = Describe("Subscriber", func() {
	var (
		mailer     *recordingMailer
		dispatcher *notification.Dispatcher
		bus        *events.EventBus
	)

	owner := events.Party{UserID: 2, Name: "Evan Employee", Email: "evan@acme.test"}
	approver := events.Party{UserID: 1, Name: "Ada Admin", Email: "ada@acme.test"}

	waitForOne := func() notification.Email {
		var sent []notification.Email
		Eventually(func() int {
			sent = mailer.all()
			return len(sent)
		}, time.Second, 10*time.Millisecond).Should(Equal(1))
		return sent[0]
	}

	BeforeEach(func() {
		mailer = &recordingMailer{}
		dispatcher = notification.NewDispatcher(notification.DispatcherConfig{MaxWorkers: 1, QueueSize: 16}, mailer, testLogger())
		bus = events.NewEventBus(testLogger())
		notification.NewSubscriber(dispatcher, testLogger()).Register(bus)
	})

	AfterEach(func() {
		dispatcher.Stop()
	})

	It("should mail the approver when a timesheet is submitted", func() {
		event := events.NewTimesheetEvent(events.TopicTimesheetSubmitted, 1, "Week 11, 2024 Timesheet", owner, approver, "")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		email := waitForOne()
		Expect(email.To).To(Equal("ada@acme.test"))
		Expect(email.Subject).To(Equal("Timesheet Approval Request"))
		Expect(email.BodyHTML).To(ContainSubstring("Evan Employee"))
	})

	It("should mail the owner on approval", func() {
		event := events.NewTimesheetEvent(events.TopicTimesheetApproved, 1, "Week 11, 2024 Timesheet", owner, approver, "")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		email := waitForOne()
		Expect(email.To).To(Equal("evan@acme.test"))
		Expect(email.Subject).To(Equal("Timesheet Approved"))
	})

	It("should include the feedback in rejection mails", func() {
		event := events.NewTimesheetEvent(events.TopicTimesheetRejected, 1, "Week 11, 2024 Timesheet", owner, approver, "fix Friday")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		email := waitForOne()
		Expect(email.To).To(Equal("evan@acme.test"))
		Expect(email.Subject).To(Equal("Timesheet Rejected"))
		Expect(email.BodyHTML).To(ContainSubstring("fix Friday"))
	})

	It("should mail the approver on a recall request", func() {
		event := events.NewTimesheetEvent(events.TopicTimesheetRecalled, 1, "Week 11, 2024 Timesheet", owner, approver, "")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		email := waitForOne()
		Expect(email.To).To(Equal("ada@acme.test"))
		Expect(email.Subject).To(Equal("Timesheet Recall Request"))
	})

	It("should mail the reset link on a password reset request", func() {
		event := events.NewPasswordResetEvent("evan@acme.test", "Evan Employee", "http://localhost:3000/reset-password?token=abc")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		email := waitForOne()
		Expect(email.To).To(Equal("evan@acme.test"))
		Expect(email.Subject).To(Equal("Password Reset Request"))
		Expect(email.BodyHTML).To(ContainSubstring("http://localhost:3000/reset-password?token=abc"))
	})
})
