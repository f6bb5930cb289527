package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/company"
	"github.com/frahmantamala/timechronos/internal/core/events"
	"github.com/frahmantamala/timechronos/internal/user"
)

type Repository interface {
	GetUserByEmail(email string) (*user.User, error)
	GetUserByID(id int64) (*user.User, error)
	GetCompanyByName(name string) (*company.Company, error)
	GetUserByEmailInCompany(companyID int64, email string) (*user.User, error)
	// CreateTenant persists the company (when new) and its first user in
	// one transaction; an Admin is wired up as its own supervisor and
	// approver before commit.
	CreateTenant(comp *company.Company, u *user.User) error
	UpdatePassword(userID int64, passwordHash string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo         Repository
	tokens       TokenGenerator
	hasher       *BcryptHasher
	publisher    EventPublisher
	resetURLBase string
	logger       *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, hasher *BcryptHasher, publisher EventPublisher, resetURLBase string, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		hasher:       hasher,
		publisher:    publisher,
		resetURLBase: resetURLBase,
		logger:       logger,
	}
}

// Register creates a company and its first user. When the company name
// already exists the user joins it instead; the email must be unused there.
func (s *Service) Register(dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = internal.RoleAdmin
	}

	comp, err := s.repo.GetCompanyByName(dto.CompanyName)
	if err != nil {
		return nil, internal.NewInternalError("could not register", err)
	}
	if comp != nil {
		existing, err := s.repo.GetUserByEmailInCompany(comp.ID, dto.Email)
		if err != nil {
			return nil, internal.NewInternalError("could not register", err)
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
	} else {
		comp = &company.Company{Name: dto.CompanyName, IsActive: true}
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("could not register", err)
	}

	u := &user.User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		Phone:        dto.Phone,
		Gender:       dto.Gender,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateTenant(comp, u); err != nil {
		s.logger.Error("failed to create tenant", "error", err, "company", dto.CompanyName)
		return nil, internal.NewInternalError("could not register", err)
	}

	s.logger.Info("tenant registered", "company_id", comp.ID, "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil || u == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, ErrUserInactive
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// Re-read the user so role changes and deactivation take effect on
	// rotation rather than lingering for the refresh window.
	u, err := s.repo.GetUserByID(claims.UserID)
	if err != nil || u == nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if !u.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issueTokens(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// ForgotPassword issues a reset token and hands the email off to the
// notification layer. Delivery is asynchronous and best effort.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}

	token, err := s.tokens.GenerateResetToken(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to generate reset token", "error", err, "user_id", u.ID)
		return internal.NewInternalError("could not issue reset token", err)
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.resetURLBase, token)
	if err := s.publisher.Publish(ctx, events.NewPasswordResetEvent(u.Email, u.FullName(), resetURL)); err != nil {
		s.logger.Error("failed to publish password reset event", "error", err, "user_id", u.ID)
	}

	s.logger.Info("password reset requested", "user_id", u.ID)
	return nil
}

func (s *Service) ResetPassword(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	claims, err := s.tokens.ValidateResetToken(dto.Token)
	if err != nil {
		return err
	}

	u, err := s.repo.GetUserByID(claims.UserID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return internal.NewInternalError("could not reset password", err)
	}
	if err := s.repo.UpdatePassword(u.ID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", u.ID)
		return internal.NewInternalError("could not reset password", err)
	}

	s.logger.Info("password reset", "user_id", u.ID)
	return nil
}

func (s *Service) ChangePassword(actor internal.Actor, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetUserByID(actor.UserID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.CurrentPassword); err != nil {
		return internal.NewUnauthorizedError("current password is incorrect", internal.ErrCodeInvalidCredentials)
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("could not change password", err)
	}
	if err := s.repo.UpdatePassword(u.ID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", u.ID)
		return internal.NewInternalError("could not change password", err)
	}

	s.logger.Info("password changed", "user_id", u.ID)
	return nil
}

func (s *Service) issueTokens(u *user.User) (AuthTokens, error) {
	actor := internal.Actor{
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Role:      u.Role,
		Email:     u.Email,
	}

	access, err := s.tokens.GenerateAccessToken(actor)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue tokens", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(actor)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue tokens", err)
	}

	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
