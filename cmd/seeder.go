package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/calendar"
	calendarpg "github.com/frahmantamala/timechronos/internal/calendar/postgres"
	"github.com/frahmantamala/timechronos/internal/client"
	"github.com/frahmantamala/timechronos/internal/company"
	"github.com/frahmantamala/timechronos/internal/project"
	"github.com/frahmantamala/timechronos/internal/task"
	"github.com/frahmantamala/timechronos/internal/user"
	"github.com/frahmantamala/timechronos/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database",
	Long:  `Seed the dim_date calendar horizon and optionally a demo tenant for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if seedCalendar {
			runCalendarSeed(db, cfg)
		}
		if seedDemo {
			runDemoSeed(db, cfg)
		}
		if !seedCalendar && !seedDemo {
			fmt.Println("nothing to do: pass --calendar and/or --demo")
		}
	},
}

func runCalendarSeed(db *gorm.DB, cfg *internal.Config) {
	start, err := time.Parse("2006-01-02", cfg.Calendar.HorizonStart)
	if err != nil {
		log.Fatalf("invalid calendar horizon start: %v", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Calendar.HorizonEnd)
	if err != nil {
		log.Fatalf("invalid calendar horizon end: %v", err)
	}

	svc := calendar.NewService(calendarpg.NewCalendarRepository(db), logger.L())
	inserted, err := svc.SeedHorizon(start, end)
	if err != nil {
		log.Fatalf("failed to seed calendar: %v", err)
	}
	fmt.Printf("Seeded dim_date: %d rows (%s .. %s)\n", inserted, cfg.Calendar.HorizonStart, cfg.Calendar.HorizonEnd)
}

// runDemoSeed creates a complete demo tenant: a company, an admin who
// approves their own timesheets, an employee reporting to the admin, and a
// client/project/task chain to log hours against. Idempotent on the company
// name.
func runDemoSeed(db *gorm.DB, cfg *internal.Config) {
	const (
		companyName = "Acme Corp"
		password    = "password"
	)

	var existing company.Company
	if err := db.Where("name = ? AND is_archived = ?", companyName, false).First(&existing).Error; err == nil {
		fmt.Println("demo tenant already exists:", companyName)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		comp := company.Company{Name: companyName, IsActive: true}
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}

		admin := user.User{
			CompanyID:    comp.ID,
			FirstName:    "Ada",
			LastName:     "Admin",
			Email:        "ada.admin@acme.test",
			PasswordHash: string(hash),
			Phone:        "5550000001",
			Role:         internal.RoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Model(&admin).Updates(map[string]any{"supervisor_id": admin.ID, "approver_id": admin.ID}).Error; err != nil {
			return err
		}

		employee := user.User{
			CompanyID:    comp.ID,
			FirstName:    "Evan",
			LastName:     "Employee",
			Email:        "evan.employee@acme.test",
			PasswordHash: string(hash),
			Phone:        "5550000002",
			Role:         "Employee",
			SupervisorID: &admin.ID,
			ApproverID:   &admin.ID,
			IsActive:     true,
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}

		cl := client.Client{
			CompanyID: comp.ID,
			FirstName: "Globex",
			LastName:  "Industries",
			Email:     "contact@globex.test",
			Phone:     "5550000003",
			IsActive:  true,
		}
		if err := tx.Create(&cl).Error; err != nil {
			return err
		}

		pr := project.Project{ClientID: cl.ID, Name: "Website Redesign", IsActive: true}
		if err := tx.Create(&pr).Error; err != nil {
			return err
		}

		tk := task.Task{ProjectID: pr.ID, Name: "Frontend Development", IsActive: true}
		return tx.Create(&tk).Error
	})
	if err != nil {
		log.Fatalf("failed to seed demo tenant: %v", err)
	}

	fmt.Println("Seeded demo tenant:", companyName)
	fmt.Println("  admin:    ada.admin@acme.test /", password)
	fmt.Println("  employee: evan.employee@acme.test /", password)
}
