package company_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/company"
)

func TestCompanyService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Service Suite")
}

type mockCompanyRepository struct {
	companies map[int64]*company.Company
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{companies: make(map[int64]*company.Company)}
}

func (m *mockCompanyRepository) GetByID(id int64) (*company.Company, error) {
	c, exists := m.companies[id]
	if !exists || c.IsArchived {
		return nil, errors.New("company not found")
	}
	copied := *c
	return &copied, nil
}

func (m *mockCompanyRepository) GetActiveByName(name string) (*company.Company, error) {
	for _, c := range m.companies {
		if c.Name == name && !c.IsArchived {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockCompanyRepository) Update(c *company.Company) error {
	stored := *c
	m.companies[c.ID] = &stored
	return nil
}

var _ = Describe("Company Service", func() {
	var (
		repo    *mockCompanyRepository
		service *company.Service
		actor   internal.Actor
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		repo = newMockCompanyRepository()
		repo.companies[10] = &company.Company{ID: 10, Name: "Acme Corp"}
		repo.companies[20] = &company.Company{ID: 20, Name: "Globex"}
		service = company.NewService(repo, testLogger)
		actor = internal.Actor{UserID: 1, CompanyID: 10, Role: internal.RoleAdmin}
	})

	Describe("Get", func() {
		It("returns the actor's own company", func() {
			comp, err := service.Get(actor)

			Expect(err).NotTo(HaveOccurred())
			Expect(comp.Name).To(Equal("Acme Corp"))
		})

		It("reports a missing tenant", func() {
			orphan := internal.Actor{UserID: 9, CompanyID: 404}

			_, err := service.Get(orphan)

			Expect(err).To(HaveOccurred())
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCompanyNotFound))
		})
	})

	Describe("Update", func() {
		It("renames the company", func() {
			name := "Acme Holdings"

			comp, err := service.Update(actor, company.UpdateCompanyDTO{Name: &name})

			Expect(err).NotTo(HaveOccurred())
			Expect(comp.Name).To(Equal("Acme Holdings"))
			Expect(repo.companies[10].Name).To(Equal("Acme Holdings"))
		})

		It("refuses a name held by another active company", func() {
			name := "Globex"

			_, err := service.Update(actor, company.UpdateCompanyDTO{Name: &name})

			Expect(err).To(Equal(company.ErrDuplicateName))
		})

		It("accepts the company's own current name", func() {
			name := "Acme Corp"

			_, err := service.Update(actor, company.UpdateCompanyDTO{Name: &name})

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an empty name", func() {
			name := ""

			_, err := service.Update(actor, company.UpdateCompanyDTO{Name: &name})

			Expect(err).To(HaveOccurred())
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("Delete", func() {
		It("archives the tenant", func() {
			Expect(service.Delete(actor)).To(Succeed())

			Expect(repo.companies[10].IsArchived).To(BeTrue())

			_, err := service.Get(actor)
			Expect(err).To(HaveOccurred())
		})

		It("can then reuse the name for a new registration", func() {
			Expect(service.Delete(actor)).To(Succeed())

			_, err := repo.GetActiveByName("Acme Corp")
			Expect(err).To(HaveOccurred())
		})
	})
})
