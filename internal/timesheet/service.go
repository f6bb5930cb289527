package timesheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/calendar"
	"github.com/frahmantamala/timechronos/internal/core/events"
	"github.com/frahmantamala/timechronos/internal/user"
)

type Repository interface {
	GetByID(id int64) (*Timesheet, error)
	// GetActiveByWeek finds the one unarchived sheet a user may have per
	// ISO week, nil when the week is free.
	GetActiveByWeek(userID int64, weekStart time.Time) (*Timesheet, error)
	Create(ts *Timesheet) error
	Update(ts *Timesheet) error
	ListForOwner(userID int64) ([]Timesheet, error)
	ListForApprover(approverID int64, status string) ([]ListEntry, error)

	// TransitionState flips approval from one of the given states to the
	// target in a single conditional update. Exactly one concurrent caller
	// can win; everyone else sees false.
	TransitionState(id int64, from []string, to string, feedback *string) (bool, error)

	TaskInCompany(companyID, taskID int64) (bool, error)
	UpsertHours(timesheetID int64, entries []TaskHours) error
	GetHoursByID(id int64) (*TaskHours, error)
	DeleteHours(id int64) error
	ListHours(timesheetID int64) ([]HoursEntry, error)
}

// UserDirectory resolves owners and approvers inside a tenant.
type UserDirectory interface {
	GetByID(companyID, id int64) (*user.User, error)
}

type CalendarResolver interface {
	Resolve(date time.Time) (calendar.WeekBounds, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	users     UserDirectory
	calendar  CalendarResolver
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, users UserDirectory, cal CalendarResolver, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		calendar:  cal,
		publisher: publisher,
		logger:    logger,
	}
}

// Create derives the week from any date inside it. Two dates of the same ISO
// week collapse to the same name, so the duplicate check works per week.
func (s *Service) Create(actor internal.Actor, dto CreateTimesheetDTO) (*Timesheet, error) {
	date, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	bounds, err := s.calendar.Resolve(date)
	if err != nil {
		return nil, err
	}

	// Keyed on the week start, not the derived name, so a renamed sheet
	// still counts against its week.
	existing, err := s.repo.GetActiveByWeek(actor.UserID, bounds.WeekStart)
	if err != nil {
		s.logger.Error("failed to check for an existing timesheet", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("could not create timesheet", err)
	}
	if existing != nil {
		return nil, ErrDuplicateTimesheet
	}

	ts := &Timesheet{
		UserID:    actor.UserID,
		Name:      bounds.TimesheetName(),
		StartDate: bounds.WeekStart,
		EndDate:   bounds.WeekEnd,
		Approval:  StatusDraft,
		IsActive:  true,
	}
	if err := s.repo.Create(ts); err != nil {
		if err == ErrDuplicateTimesheet {
			return nil, err
		}
		s.logger.Error("failed to create timesheet", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("could not create timesheet", err)
	}

	s.logger.Info("timesheet created", "timesheet_id", ts.ID, "name", ts.Name, "user_id", actor.UserID)
	return ts, nil
}

func (s *Service) Get(actor internal.Actor, id int64) (*Timesheet, error) {
	return s.ownedSheet(actor, id)
}

func (s *Service) Update(actor internal.Actor, id int64, dto UpdateTimesheetDTO) (*Timesheet, error) {
	ts, err := s.ownedSheet(actor, id)
	if err != nil {
		return nil, err
	}
	if !ts.CanEdit() {
		return nil, ErrNotEditable
	}

	if dto.IsActive != nil {
		ts.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ts); err != nil {
		s.logger.Error("failed to update timesheet", "error", err, "timesheet_id", ts.ID)
		return nil, internal.NewInternalError("could not update timesheet", err)
	}
	return ts, nil
}

func (s *Service) Delete(actor internal.Actor, id int64) error {
	ts, err := s.ownedSheet(actor, id)
	if err != nil {
		return err
	}
	if !ts.CanDelete() {
		return ErrNotDeletable
	}

	ts.IsArchived = true
	ts.IsActive = false
	if err := s.repo.Update(ts); err != nil {
		s.logger.Error("failed to archive timesheet", "error", err, "timesheet_id", ts.ID)
		return internal.NewInternalError("could not delete timesheet", err)
	}

	s.logger.Info("timesheet archived", "timesheet_id", ts.ID, "user_id", actor.UserID)
	return nil
}

func (s *Service) ListForOwner(actor internal.Actor) ([]Timesheet, error) {
	sheets, err := s.repo.ListForOwner(actor.UserID)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("could not list timesheets", err)
	}
	return sheets, nil
}

// ListForApprover returns the sheets of every user whose approver is the
// actor, optionally filtered to one approval state.
func (s *Service) ListForApprover(actor internal.Actor, status string) ([]ListEntry, error) {
	entries, err := s.repo.ListForApprover(actor.UserID, status)
	if err != nil {
		s.logger.Error("failed to list timesheets for approver", "error", err, "approver_id", actor.UserID)
		return nil, internal.NewInternalError("could not list timesheets", err)
	}
	return entries, nil
}

// SubmitForApproval moves a draft or rejected sheet to pending and notifies
// the approver.
func (s *Service) SubmitForApproval(ctx context.Context, actor internal.Actor, id int64) (*Timesheet, error) {
	ts, err := s.ownedSheet(actor, id)
	if err != nil {
		return nil, err
	}

	owner, approver, err := s.resolveParties(actor.CompanyID, ts.UserID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionState(ts.ID, []string{StatusDraft, StatusRejected}, StatusPending, nil)
	if err != nil {
		return nil, internal.NewInternalError("could not submit timesheet", err)
	}
	if !ok {
		return nil, s.transitionFailure(ts.ID, ts.CanSubmit, ErrNotSubmittable)
	}
	ts.Approval = StatusPending

	s.notify(ctx, events.TopicTimesheetSubmitted, ts, owner, approver, "")
	s.logger.Info("timesheet submitted", "timesheet_id", ts.ID, "user_id", actor.UserID, "approver_id", approver.UserID)
	return ts, nil
}

// Approve moves a pending sheet to approved. Only the owner's designated
// approver may call it; a sheet that is already approved yields a conflict.
func (s *Service) Approve(ctx context.Context, actor internal.Actor, id int64) (*Timesheet, error) {
	ts, owner, approver, err := s.approvableSheet(actor, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionState(ts.ID, []string{StatusPending}, StatusApproved, nil)
	if err != nil {
		return nil, internal.NewInternalError("could not approve timesheet", err)
	}
	if !ok {
		current, rerr := s.repo.GetByID(ts.ID)
		if rerr == nil && current != nil && current.Approval == StatusApproved {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrTransitionConflict
	}
	ts.Approval = StatusApproved

	s.notify(ctx, events.TopicTimesheetApproved, ts, owner, approver, "")
	s.logger.Info("timesheet approved", "timesheet_id", ts.ID, "approver_id", actor.UserID)
	return ts, nil
}

// Reject moves a pending sheet to rejected with mandatory feedback.
func (s *Service) Reject(ctx context.Context, actor internal.Actor, id int64, dto RejectDTO) (*Timesheet, error) {
	if dto.Feedback == "" {
		return nil, ErrMissingFeedback
	}

	ts, owner, approver, err := s.approvableSheet(actor, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionState(ts.ID, []string{StatusPending}, StatusRejected, &dto.Feedback)
	if err != nil {
		return nil, internal.NewInternalError("could not reject timesheet", err)
	}
	if !ok {
		current, rerr := s.repo.GetByID(ts.ID)
		if rerr == nil && current != nil {
			switch current.Approval {
			case StatusApproved:
				return nil, ErrRejectApproved
			case StatusRejected:
				return nil, ErrAlreadyRejected
			}
		}
		return nil, ErrTransitionConflict
	}
	ts.Approval = StatusRejected
	ts.Feedback = dto.Feedback

	s.notify(ctx, events.TopicTimesheetRejected, ts, owner, approver, dto.Feedback)
	s.logger.Info("timesheet rejected", "timesheet_id", ts.ID, "approver_id", actor.UserID)
	return ts, nil
}

// Recall is the owner asking to pull back an approved sheet.
func (s *Service) Recall(ctx context.Context, actor internal.Actor, id int64) (*Timesheet, error) {
	ts, err := s.ownedSheet(actor, id)
	if err != nil {
		return nil, err
	}

	owner, approver, err := s.resolveParties(actor.CompanyID, ts.UserID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionState(ts.ID, []string{StatusApproved}, StatusRecalled, nil)
	if err != nil {
		return nil, internal.NewInternalError("could not recall timesheet", err)
	}
	if !ok {
		return nil, s.transitionFailure(ts.ID, func() bool { return ts.Approval == StatusApproved }, ErrNotRecallable)
	}
	ts.Approval = StatusRecalled

	s.notify(ctx, events.TopicTimesheetRecalled, ts, owner, approver, "")
	s.logger.Info("timesheet recalled", "timesheet_id", ts.ID, "user_id", actor.UserID)
	return ts, nil
}

// AcceptRecall is the approver releasing a recalled sheet back to draft.
func (s *Service) AcceptRecall(ctx context.Context, actor internal.Actor, id int64) (*Timesheet, error) {
	ts, owner, approver, err := s.approvableSheet(actor, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionState(ts.ID, []string{StatusRecalled}, StatusDraft, nil)
	if err != nil {
		return nil, internal.NewInternalError("could not accept recall", err)
	}
	if !ok {
		return nil, s.transitionFailure(ts.ID, func() bool { return ts.Approval == StatusRecalled }, ErrNotRecallable)
	}
	ts.Approval = StatusDraft

	s.notify(ctx, events.TopicTimesheetRecallAccepted, ts, owner, approver, "")
	s.logger.Info("timesheet recall accepted", "timesheet_id", ts.ID, "approver_id", actor.UserID)
	return ts, nil
}

// UpsertTaskHours writes a batch of weekly hour rows, one per task, in a
// single transaction. The parent sheet must be editable for hours.
func (s *Service) UpsertTaskHours(actor internal.Actor, timesheetID int64, dto UpsertTaskHoursDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	ts, err := s.ownedSheet(actor, timesheetID)
	if err != nil {
		return err
	}
	if !ts.HoursEditable() {
		return ErrHoursLocked
	}

	rows := make([]TaskHours, 0, len(dto.Entries))
	for _, entry := range dto.Entries {
		ok, err := s.repo.TaskInCompany(actor.CompanyID, entry.TaskID)
		if err != nil || !ok {
			return ErrTaskNotFound
		}
		row := TaskHours{TimesheetID: ts.ID, TaskID: entry.TaskID, IsActive: true}
		row.SetValues(entry.Values)
		rows = append(rows, row)
	}

	if err := s.repo.UpsertHours(ts.ID, rows); err != nil {
		s.logger.Error("failed to upsert task hours", "error", err, "timesheet_id", ts.ID)
		return internal.NewInternalError("could not save task hours", err)
	}

	s.logger.Info("task hours saved", "timesheet_id", ts.ID, "entries", len(rows), "user_id", actor.UserID)
	return nil
}

func (s *Service) DeleteTaskHours(actor internal.Actor, hoursID int64) error {
	th, err := s.repo.GetHoursByID(hoursID)
	if err != nil || th == nil || !th.IsActive {
		return ErrTaskHoursNotFound
	}

	ts, err := s.ownedSheet(actor, th.TimesheetID)
	if err != nil {
		return err
	}
	if !ts.CanDelete() {
		return ErrHoursLocked
	}

	if err := s.repo.DeleteHours(th.ID); err != nil {
		s.logger.Error("failed to delete task hours", "error", err, "task_hours_id", th.ID)
		return internal.NewInternalError("could not delete task hours", err)
	}

	s.logger.Info("task hours deleted", "task_hours_id", th.ID, "timesheet_id", ts.ID)
	return nil
}

// ListTaskHours is visible to the owner and to the owner's approver.
func (s *Service) ListTaskHours(actor internal.Actor, timesheetID int64) ([]HoursEntry, error) {
	ts, err := s.repo.GetByID(timesheetID)
	if err != nil || ts == nil {
		return nil, ErrTimesheetNotFound
	}

	if ts.UserID != actor.UserID {
		owner, err := s.users.GetByID(actor.CompanyID, ts.UserID)
		if err != nil || owner == nil {
			return nil, ErrTimesheetNotFound
		}
		if owner.ApproverID == nil || *owner.ApproverID != actor.UserID {
			return nil, ErrNotOwner
		}
	}

	entries, err := s.repo.ListHours(ts.ID)
	if err != nil {
		s.logger.Error("failed to list task hours", "error", err, "timesheet_id", ts.ID)
		return nil, internal.NewInternalError("could not list task hours", err)
	}
	return entries, nil
}

// ownedSheet loads a sheet and enforces that the actor owns it. Sheets of
// other tenants are indistinguishable from missing ones.
func (s *Service) ownedSheet(actor internal.Actor, id int64) (*Timesheet, error) {
	ts, err := s.repo.GetByID(id)
	if err != nil || ts == nil || ts.IsArchived {
		return nil, ErrTimesheetNotFound
	}
	if ts.UserID != actor.UserID {
		owner, derr := s.users.GetByID(actor.CompanyID, ts.UserID)
		if derr != nil || owner == nil {
			return nil, ErrTimesheetNotFound
		}
		return nil, ErrNotOwner
	}
	return ts, nil
}

// approvableSheet loads a sheet and enforces that the actor is the owner's
// designated approver in the same company.
func (s *Service) approvableSheet(actor internal.Actor, id int64) (*Timesheet, events.Party, events.Party, error) {
	ts, err := s.repo.GetByID(id)
	if err != nil || ts == nil || ts.IsArchived {
		return nil, events.Party{}, events.Party{}, ErrTimesheetNotFound
	}

	owner, err := s.users.GetByID(actor.CompanyID, ts.UserID)
	if err != nil || owner == nil {
		return nil, events.Party{}, events.Party{}, ErrTimesheetNotFound
	}
	if owner.ApproverID == nil || *owner.ApproverID != actor.UserID {
		return nil, events.Party{}, events.Party{}, ErrNotApprover
	}

	ownerParty := events.Party{UserID: owner.ID, Name: owner.FullName(), Email: owner.Email}
	approverParty := events.Party{UserID: actor.UserID, Name: actor.Email, Email: actor.Email}
	if ap, aerr := s.users.GetByID(actor.CompanyID, actor.UserID); aerr == nil && ap != nil {
		approverParty.Name = ap.FullName()
	}
	return ts, ownerParty, approverParty, nil
}

// resolveParties loads the owner and its approver for notifications.
func (s *Service) resolveParties(companyID, ownerID int64) (events.Party, events.Party, error) {
	owner, err := s.users.GetByID(companyID, ownerID)
	if err != nil || owner == nil {
		return events.Party{}, events.Party{}, ErrTimesheetNotFound
	}
	if owner.ApproverID == nil {
		return events.Party{}, events.Party{}, ErrApproverMissing
	}
	approver, err := s.users.GetByID(companyID, *owner.ApproverID)
	if err != nil || approver == nil {
		return events.Party{}, events.Party{}, ErrApproverMissing
	}

	return events.Party{UserID: owner.ID, Name: owner.FullName(), Email: owner.Email},
		events.Party{UserID: approver.ID, Name: approver.FullName(), Email: approver.Email},
		nil
}

// transitionFailure distinguishes a stale snapshot (conflict) from an
// operation that was never legal in the sheet's current state.
func (s *Service) transitionFailure(id int64, wasLegal func() bool, stateErr *internal.AppError) error {
	if wasLegal() {
		return ErrTransitionConflict
	}
	return stateErr
}

func (s *Service) notify(ctx context.Context, topic events.Topic, ts *Timesheet, owner, approver events.Party, feedback string) {
	event := events.NewTimesheetEvent(topic, ts.ID, ts.Name, owner, approver, feedback)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish timesheet event", "error", err, "topic", string(topic), "timesheet_id", ts.ID)
	}
}
