package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/auth"
	"github.com/frahmantamala/timechronos/internal/company"
	"github.com/frahmantamala/timechronos/internal/core/events"
	"github.com/frahmantamala/timechronos/internal/user"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	users         map[int64]*user.User
	companies     map[int64]*company.Company
	nextUserID    int64
	nextCompanyID int64
	createError   error
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:         make(map[int64]*user.User),
		companies:     make(map[int64]*company.Company),
		nextUserID:    1,
		nextCompanyID: 1,
	}
}

func (m *mockAuthRepository) GetUserByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email && !u.IsArchived {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockAuthRepository) GetUserByID(id int64) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return u, nil
}

func (m *mockAuthRepository) GetCompanyByName(name string) (*company.Company, error) {
	for _, c := range m.companies {
		if c.Name == name && !c.IsArchived {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockAuthRepository) GetUserByEmailInCompany(companyID int64, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.CompanyID == companyID && u.Email == email && !u.IsArchived {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockAuthRepository) CreateTenant(comp *company.Company, u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	if comp.ID == 0 {
		comp.ID = m.nextCompanyID
		m.nextCompanyID++
		m.companies[comp.ID] = comp
	}
	u.ID = m.nextUserID
	m.nextUserID++
	u.CompanyID = comp.ID
	if u.IsAdmin() {
		id := u.ID
		u.SupervisorID = &id
		u.ApproverID = &id
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockAuthRepository) UpdatePassword(userID int64, passwordHash string) error {
	if u, exists := m.users[userID]; exists {
		u.PasswordHash = passwordHash
	}
	return nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(_ context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service   *auth.Service
		mockRepo  *mockAuthRepository
		publisher *mockPublisher
		tokens    *auth.JWTTokenGenerator
		hasher    *auth.BcryptHasher
	)

	securityConfig := internal.SecurityConfig{
		AccessTokenSecret:    "test-access-secret-needs-enough-length!",
		RefreshTokenSecret:   "test-refresh-secret-needs-enough-length",
		ResetTokenSecret:     "test-reset-secret-needs-enough-length!!",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		ResetTokenDuration:   time.Minute,
	}

	registration := func() auth.RegisterDTO {
		return auth.RegisterDTO{
			CompanyName: "Acme Corp",
			FirstName:   "Ada",
			LastName:    "Admin",
			Email:       "ada@acme.test",
			Password:    "secret123",
			Gender:      "female",
			Phone:       "5550000001",
		}
	}

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		publisher = &mockPublisher{}
		tokens = auth.NewJWTTokenGenerator(securityConfig)
		hasher = auth.NewBcryptHasher(bcrypt.MinCost)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokens, hasher, publisher, "http://localhost:3000/reset-password", logger)
	})

	Describe("Register", func() {
		It("should create a company and make the first user an admin approving itself", func() {
			u, err := service.Register(registration())

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(internal.RoleAdmin))
			Expect(u.CompanyID).ToNot(BeZero())
			Expect(u.SupervisorID).ToNot(BeNil())
			Expect(*u.SupervisorID).To(Equal(u.ID))
			Expect(*u.ApproverID).To(Equal(u.ID))
		})

		It("should join an existing company instead of creating a second one", func() {
			_, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())

			second := registration()
			second.Email = "bob@acme.test"
			second.Role = "Employee"
			u, err := service.Register(second)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.CompanyID).To(Equal(int64(1)))
			Expect(mockRepo.companies).To(HaveLen(1))
			Expect(u.Role).To(Equal("Employee"))
		})

		It("should refuse a duplicate email inside the same company", func() {
			_, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Register(registration())
			Expect(err).To(Equal(auth.ErrEmailTaken))
		})

		It("should reject a phone number that is not ten digits", func() {
			dto := registration()
			dto.Phone = "12345"

			_, err := service.Register(dto)
			Expect(err).To(HaveOccurred())
			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should never store the plain password", func() {
			dto := registration()
			u, err := service.Register(dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.PasswordHash).ToNot(Equal(dto.Password))
			Expect(hasher.Compare(u.PasswordHash, dto.Password)).To(Succeed())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should issue a token pair for valid credentials", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "secret123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(pair.AccessToken).ToNot(BeEmpty())
			Expect(pair.RefreshToken).ToNot(BeEmpty())

			claims, err := tokens.ValidateAccessToken(pair.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
			Expect(claims.CompanyID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(internal.RoleAdmin))
		})

		It("should refuse a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "wrong"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should refuse an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@acme.test", Password: "secret123"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should refuse a deactivated user", func() {
			mockRepo.users[1].IsActive = false

			_, err := service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "secret123"})
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("RefreshTokens", func() {
		var pair auth.AuthTokens

		BeforeEach(func() {
			_, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())
			pair, err = service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "secret123"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should rotate the pair", func() {
			rotated, err := service.RefreshTokens(pair.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(rotated.AccessToken).ToNot(BeEmpty())
			Expect(rotated.RefreshToken).ToNot(BeEmpty())
		})

		It("should pick up a role change on rotation", func() {
			mockRepo.users[1].Role = "Employee"

			rotated, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).ToNot(HaveOccurred())

			claims, err := tokens.ValidateAccessToken(rotated.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Role).To(Equal("Employee"))
		})

		It("should refuse once the user is deactivated", func() {
			mockRepo.users[1].IsActive = false

			_, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).To(Equal(auth.ErrUserInactive))
		})

		It("should refuse an access token used as refresh token", func() {
			_, err := service.RefreshTokens(pair.AccessToken)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("ForgotPassword and ResetPassword", func() {
		BeforeEach(func() {
			_, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should publish a reset event carrying a tokenized link", func() {
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{Email: "ada@acme.test"})

			Expect(err).ToNot(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))

			event, ok := publisher.published[0].(*events.PasswordResetEvent)
			Expect(ok).To(BeTrue())
			Expect(event.Email).To(Equal("ada@acme.test"))
			Expect(event.ResetURL).To(HavePrefix("http://localhost:3000/reset-password?token="))
		})

		It("should report unknown emails", func() {
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{Email: "ghost@acme.test"})
			Expect(err).To(Equal(auth.ErrUserNotFound))
		})

		It("should accept a reset token and change the password", func() {
			token, err := tokens.GenerateResetToken(1, "ada@acme.test")
			Expect(err).ToNot(HaveOccurred())

			err = service.ResetPassword(auth.ResetPasswordDTO{Token: token, Password: "newsecret"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "newsecret"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should refuse an access token presented as reset token", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "secret123"})
			Expect(err).ToNot(HaveOccurred())

			err = service.ResetPassword(auth.ResetPasswordDTO{Token: pair.AccessToken, Password: "newsecret"})
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("ChangePassword", func() {
		var actor internal.Actor

		BeforeEach(func() {
			u, err := service.Register(registration())
			Expect(err).ToNot(HaveOccurred())
			actor = internal.Actor{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role, Email: u.Email}
		})

		It("should change the password when the current one matches", func() {
			err := service.ChangePassword(actor, auth.ChangePasswordDTO{CurrentPassword: "secret123", NewPassword: "rotated456"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Authenticate(auth.LoginDTO{Email: "ada@acme.test", Password: "rotated456"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should refuse when the current password is wrong", func() {
			err := service.ChangePassword(actor, auth.ChangePasswordDTO{CurrentPassword: "nope", NewPassword: "rotated456"})

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
		})
	})
})
