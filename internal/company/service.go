package company

import (
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
)

type Repository interface {
	GetByID(id int64) (*Company, error)
	GetActiveByName(name string) (*Company, error)
	Update(company *Company) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(actor internal.Actor) (*Company, error) {
	comp, err := s.repo.GetByID(actor.CompanyID)
	if err != nil {
		return nil, ErrCompanyNotFound.WithCause(err)
	}
	return comp, nil
}

// Update renames the actor's own company. The name must be unique among
// active companies.
func (s *Service) Update(actor internal.Actor, dto UpdateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	comp, err := s.repo.GetByID(actor.CompanyID)
	if err != nil {
		return nil, ErrCompanyNotFound.WithCause(err)
	}

	if dto.Name != nil && *dto.Name != comp.Name {
		existing, err := s.repo.GetActiveByName(*dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("could not update company", err)
		}
		if existing != nil && existing.ID != comp.ID {
			return nil, ErrDuplicateName
		}
		comp.Name = *dto.Name
	}

	if err := s.repo.Update(comp); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", comp.ID)
		return nil, internal.NewInternalError("could not update company", err)
	}

	s.logger.Info("company updated", "company_id", comp.ID, "actor_id", actor.UserID)
	return comp, nil
}

// Delete archives the tenant.
func (s *Service) Delete(actor internal.Actor) error {
	comp, err := s.repo.GetByID(actor.CompanyID)
	if err != nil {
		return ErrCompanyNotFound.WithCause(err)
	}

	comp.Archive()
	if err := s.repo.Update(comp); err != nil {
		s.logger.Error("failed to archive company", "error", err, "company_id", comp.ID)
		return internal.NewInternalError("could not delete company", err)
	}

	s.logger.Info("company archived", "company_id", comp.ID, "actor_id", actor.UserID)
	return nil
}
