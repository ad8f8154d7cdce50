package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/internal/handlers"
	"github.com/creativeyMedia/Fwkantine-sub001/internal/routes"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.Department{},
		&models.MenuItem{},
		&models.Employee{},
		&models.SubAccount{},
		&models.Order{},
		&models.LunchSetting{},
		&models.SponsorEvent{},
		&models.BalanceTransaction{},
	); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	seedDepartments()

	go handlers.OrderFeed.Run()

	r := gin.Default()
	routes.SetupRoutes(r)

	addr := config.ServerAddr()
	slog.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// seedDepartments creates the four watch departments on an empty database so
// a fresh deployment is usable right away. Passwords come from the
// environment and default to well-known development values.
func seedDepartments() {
	var count int64
	config.DB.Model(&models.Department{}).Count(&count)
	if count > 0 {
		return
	}

	employeePassword := os.Getenv("INIT_EMPLOYEE_PASSWORD")
	if employeePassword == "" {
		employeePassword = "password1"
	}
	adminPassword := os.Getenv("INIT_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin1"
	}

	employeeHash, err := bcrypt.GenerateFromPassword([]byte(employeePassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		os.Exit(1)
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		os.Exit(1)
	}

	for i := 1; i <= 4; i++ {
		department := models.Department{
			Name:             fmt.Sprintf("%d. Wachabteilung", i),
			EmployeePassword: string(employeeHash),
			AdminPassword:    string(adminHash),
			WhiteRollPrice:   0.50,
			SeededRollPrice:  0.60,
			BoiledEggPrice:   0.50,
			FriedEggPrice:    0.50,
			CoffeePrice:      1.50,
		}
		if err := config.DB.Create(&department).Error; err != nil {
			slog.Error("failed to seed department", "error", err, "name", department.Name)
			os.Exit(1)
		}

		toppings := []string{"Butter", "Marmelade", "Käse", "Wurst", "Ei", "Frischkäse"}
		for _, name := range toppings {
			config.DB.Create(&models.MenuItem{
				DepartmentID: department.ID,
				Category:     models.MenuCategoryTopping,
				Name:         name,
				Price:        0,
			})
		}
	}
	slog.Info("seeded default departments")
}
