package project

import (
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
)

type Repository interface {
	// GetByID only returns projects reachable from the given company
	// through the client join.
	GetByID(companyID, id int64) (*Project, error)
	GetActiveByName(clientID int64, name string) (*Project, error)
	Create(project *Project) error
	Update(project *Project) error
	ListWithClients(companyID int64) ([]ListEntry, error)
}

// ClientChecker verifies that a client id belongs to the company before a
// project is attached to it.
type ClientChecker interface {
	ClientExists(companyID, clientID int64) (bool, error)
}

type Service struct {
	repo    Repository
	clients ClientChecker
	logger  *slog.Logger
}

func NewService(repo Repository, clients ClientChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, clients: clients, logger: logger}
}

func (s *Service) Create(actor internal.Actor, dto CreateProjectDTO) (*Project, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.clients.ClientExists(actor.CompanyID, dto.ClientID)
	if err != nil || !ok {
		return nil, ErrClientNotFound
	}

	existing, err := s.repo.GetActiveByName(dto.ClientID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("could not create project", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	start, _ := parseDate(dto.StartDate)
	end, _ := parseDate(dto.EndDate)

	p := &Project{
		ClientID:  dto.ClientID,
		Name:      dto.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create project", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("could not create project", err)
	}

	s.logger.Info("project created", "project_id", p.ID, "client_id", p.ClientID, "actor_id", actor.UserID)
	return p, nil
}

func (s *Service) Get(actor internal.Actor, id int64) (*Project, error) {
	p, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrProjectNotFound.WithCause(err)
	}
	return p, nil
}

func (s *Service) Update(actor internal.Actor, id int64, dto UpdateProjectDTO) (*Project, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrProjectNotFound.WithCause(err)
	}

	if dto.Name != nil && *dto.Name != p.Name {
		existing, err := s.repo.GetActiveByName(p.ClientID, *dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("could not update project", err)
		}
		if existing != nil && existing.ID != p.ID {
			return nil, ErrDuplicateName
		}
		p.Name = *dto.Name
	}
	if dto.StartDate != nil {
		start, _ := parseDate(*dto.StartDate)
		p.StartDate = start
	}
	if dto.EndDate != nil {
		end, _ := parseDate(*dto.EndDate)
		p.EndDate = end
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", p.ID)
		return nil, internal.NewInternalError("could not update project", err)
	}

	s.logger.Info("project updated", "project_id", p.ID, "actor_id", actor.UserID)
	return p, nil
}

func (s *Service) Delete(actor internal.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	p, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return ErrProjectNotFound.WithCause(err)
	}

	p.Archive()
	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to archive project", "error", err, "project_id", p.ID)
		return internal.NewInternalError("could not delete project", err)
	}

	s.logger.Info("project archived", "project_id", p.ID, "actor_id", actor.UserID)
	return nil
}

func (s *Service) List(actor internal.Actor) ([]ListEntry, error) {
	entries, err := s.repo.ListWithClients(actor.CompanyID)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "company_id", actor.CompanyID)
		return nil, internal.NewInternalError("could not list projects", err)
	}
	return entries, nil
}
