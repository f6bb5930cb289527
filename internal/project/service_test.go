package project_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/project"
)

func TestProjectService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Service Suite")
}

// Mock repository doubling as the client checker
type mockProjectRepository struct {
	projects map[int64]*project.Project
	clients  map[int64]int64 // client id -> company id
	nextID   int64
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: make(map[int64]*project.Project),
		clients:  make(map[int64]int64),
		nextID:   1,
	}
}

func (m *mockProjectRepository) GetByID(companyID, id int64) (*project.Project, error) {
	p, exists := m.projects[id]
	if !exists || p.IsArchived || m.clients[p.ClientID] != companyID {
		return nil, errors.New("project not found")
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepository) GetActiveByName(clientID int64, name string) (*project.Project, error) {
	for _, p := range m.projects {
		if p.ClientID == clientID && p.Name == name && !p.IsArchived {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockProjectRepository) Create(p *project.Project) error {
	p.ID = m.nextID
	m.nextID++
	stored := *p
	m.projects[p.ID] = &stored
	return nil
}

func (m *mockProjectRepository) Update(p *project.Project) error {
	stored := *p
	m.projects[p.ID] = &stored
	return nil
}

func (m *mockProjectRepository) ListWithClients(companyID int64) ([]project.ListEntry, error) {
	var out []project.ListEntry
	for _, p := range m.projects {
		if !p.IsArchived && m.clients[p.ClientID] == companyID {
			out = append(out, project.ListEntry{ID: p.ID, Name: p.Name, ClientID: p.ClientID})
		}
	}
	return out, nil
}

func (m *mockProjectRepository) ClientExists(companyID, clientID int64) (bool, error) {
	return m.clients[clientID] == companyID, nil
}

var _ = Describe("ProjectService", func() {
	var (
		service  *project.Service
		mockRepo *mockProjectRepository

		admin internal.Actor
	)

	BeforeEach(func() {
		mockRepo = newMockProjectRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = project.NewService(mockRepo, mockRepo, logger)

		mockRepo.clients[1] = 10
		admin = internal.Actor{UserID: 1, CompanyID: 10, Role: internal.RoleAdmin}
	})

	Describe("Create", func() {
		It("should create a project under an owned client", func() {
			p, err := service.Create(admin, project.CreateProjectDTO{
				Name:      "Website Redesign",
				ClientID:  1,
				StartDate: "2024-01-08",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(p.ClientID).To(Equal(int64(1)))
			Expect(p.StartDate).ToNot(BeNil())
			Expect(*p.StartDate).To(Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
			Expect(p.EndDate).To(BeNil())
		})

		It("should refuse a client of another company", func() {
			mockRepo.clients[2] = 99

			_, err := service.Create(admin, project.CreateProjectDTO{Name: "Infiltration", ClientID: 2})
			Expect(err).To(Equal(project.ErrClientNotFound))
		})

		It("should refuse a duplicate name for the same client", func() {
			_, err := service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).To(Equal(project.ErrDuplicateName))
		})

		It("should allow the same name under a different client", func() {
			mockRepo.clients[2] = 10

			_, err := service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 2})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should refuse non-admin callers", func() {
			employee := internal.Actor{UserID: 2, CompanyID: 10, Role: "Employee"}

			_, err := service.Create(employee, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).To(Equal(project.ErrAdminRequired))
		})

		It("should reject malformed dates", func() {
			_, err := service.Create(admin, project.CreateProjectDTO{
				Name: "Website Redesign", ClientID: 1, StartDate: "08/01/2024",
			})

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})
	})

	Describe("Update", func() {
		var created *project.Project

		BeforeEach(func() {
			var err error
			created, err = service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should rename when the new name is free", func() {
			name := "Website Relaunch"
			p, err := service.Update(admin, created.ID, project.UpdateProjectDTO{Name: &name})

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Name).To(Equal(name))
		})

		It("should refuse renaming onto an existing sibling project", func() {
			_, err := service.Create(admin, project.CreateProjectDTO{Name: "Mobile App", ClientID: 1})
			Expect(err).ToNot(HaveOccurred())

			name := "Mobile App"
			_, err = service.Update(admin, created.ID, project.UpdateProjectDTO{Name: &name})
			Expect(err).To(Equal(project.ErrDuplicateName))
		})

		It("should hide projects of other tenants", func() {
			otherAdmin := internal.Actor{UserID: 9, CompanyID: 99, Role: internal.RoleAdmin}
			name := "Hijack"

			_, err := service.Update(otherAdmin, created.ID, project.UpdateProjectDTO{Name: &name})
			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeProjectNotFound))
		})
	})

	Describe("Delete", func() {
		It("should archive the project", func() {
			created, err := service.Create(admin, project.CreateProjectDTO{Name: "Website Redesign", ClientID: 1})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(admin, created.ID)).To(Succeed())
			Expect(mockRepo.projects[created.ID].IsArchived).To(BeTrue())

			entries, err := service.List(admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})
})
