package task

import (
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
)

type Repository interface {
	// GetByID only returns tasks reachable from the given company through
	// the project and client joins.
	GetByID(companyID, id int64) (*Task, error)
	GetActiveByName(projectID int64, name string) (*Task, error)
	Create(task *Task) error
	Update(task *Task) error
	ListWithProjects(companyID int64) ([]ListEntry, error)
}

type ProjectChecker interface {
	ProjectExists(companyID, projectID int64) (bool, error)
}

type Service struct {
	repo     Repository
	projects ProjectChecker
	logger   *slog.Logger
}

func NewService(repo Repository, projects ProjectChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, projects: projects, logger: logger}
}

func (s *Service) Create(actor internal.Actor, dto CreateTaskDTO) (*Task, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.projects.ProjectExists(actor.CompanyID, dto.ProjectID)
	if err != nil || !ok {
		return nil, ErrProjectNotFound
	}

	existing, err := s.repo.GetActiveByName(dto.ProjectID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("could not create task", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	start, _ := parseDate(dto.StartDate)
	end, _ := parseDate(dto.EndDate)

	t := &Task{
		ProjectID: dto.ProjectID,
		Name:      dto.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("could not create task", err)
	}

	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID, "actor_id", actor.UserID)
	return t, nil
}

func (s *Service) Get(actor internal.Actor, id int64) (*Task, error) {
	t, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrTaskNotFound.WithCause(err)
	}
	return t, nil
}

func (s *Service) Update(actor internal.Actor, id int64, dto UpdateTaskDTO) (*Task, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrTaskNotFound.WithCause(err)
	}

	if dto.Name != nil && *dto.Name != t.Name {
		existing, err := s.repo.GetActiveByName(t.ProjectID, *dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("could not update task", err)
		}
		if existing != nil && existing.ID != t.ID {
			return nil, ErrDuplicateName
		}
		t.Name = *dto.Name
	}
	if dto.StartDate != nil {
		start, _ := parseDate(*dto.StartDate)
		t.StartDate = start
	}
	if dto.EndDate != nil {
		end, _ := parseDate(*dto.EndDate)
		t.EndDate = end
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", t.ID)
		return nil, internal.NewInternalError("could not update task", err)
	}

	s.logger.Info("task updated", "task_id", t.ID, "actor_id", actor.UserID)
	return t, nil
}

func (s *Service) Delete(actor internal.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	t, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return ErrTaskNotFound.WithCause(err)
	}

	t.Archive()
	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to archive task", "error", err, "task_id", t.ID)
		return internal.NewInternalError("could not delete task", err)
	}

	s.logger.Info("task archived", "task_id", t.ID, "actor_id", actor.UserID)
	return nil
}

func (s *Service) List(actor internal.Actor) ([]ListEntry, error) {
	entries, err := s.repo.ListWithProjects(actor.CompanyID)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "company_id", actor.CompanyID)
		return nil, internal.NewInternalError("could not list tasks", err)
	}
	return entries, nil
}
