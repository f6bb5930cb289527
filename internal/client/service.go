package client

import (
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
)

type Repository interface {
	GetByID(companyID, id int64) (*Client, error)
	GetActiveByEmail(companyID int64, email string) (*Client, error)
	Create(client *Client) error
	Update(client *Client) error
	List(companyID int64) ([]Client, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(actor internal.Actor, dto CreateClientDTO) (*Client, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetActiveByEmail(actor.CompanyID, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("could not create client", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	c := &Client{
		CompanyID: actor.CompanyID,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
		IsActive:  true,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create client", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("could not create client", err)
	}

	s.logger.Info("client created", "client_id", c.ID, "company_id", c.CompanyID, "actor_id", actor.UserID)
	return c, nil
}

func (s *Service) Get(actor internal.Actor, id int64) (*Client, error) {
	c, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrClientNotFound.WithCause(err)
	}
	return c, nil
}

func (s *Service) Update(actor internal.Actor, id int64, dto UpdateClientDTO) (*Client, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrClientNotFound.WithCause(err)
	}

	if dto.Email != nil && *dto.Email != c.Email {
		existing, err := s.repo.GetActiveByEmail(actor.CompanyID, *dto.Email)
		if err != nil {
			return nil, internal.NewInternalError("could not update client", err)
		}
		if existing != nil && existing.ID != c.ID {
			return nil, ErrDuplicateEmail
		}
		c.Email = *dto.Email
	}

	if dto.FirstName != nil {
		c.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		c.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.IsActive != nil {
		c.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", c.ID)
		return nil, internal.NewInternalError("could not update client", err)
	}

	s.logger.Info("client updated", "client_id", c.ID, "actor_id", actor.UserID)
	return c, nil
}

func (s *Service) Delete(actor internal.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	c, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return ErrClientNotFound.WithCause(err)
	}

	c.Archive()
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to archive client", "error", err, "client_id", c.ID)
		return internal.NewInternalError("could not delete client", err)
	}

	s.logger.Info("client archived", "client_id", c.ID, "actor_id", actor.UserID)
	return nil
}

func (s *Service) List(actor internal.Actor) ([]Client, error) {
	clients, err := s.repo.List(actor.CompanyID)
	if err != nil {
		s.logger.Error("failed to list clients", "error", err, "company_id", actor.CompanyID)
		return nil, internal.NewInternalError("could not list clients", err)
	}
	return clients, nil
}
