package seed

import (
	"server/config"
	"server/internal/logger"
	. "server/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed creates a demo company with a small team so the analysis flow
// can be exercised without manual registration.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []User{
		{
			Role:     RoleCompany,
			Name:     "Ромашка",
			Email:    "hr@romashka.example.com",
			Password: string(hash),
		}, {
			Role:        RoleEmployee,
			Name:        "Анна Иванова",
			CompanyName: stringPtr("Ромашка"),
			Email:       "anna@romashka.example.com",
			Password:    string(hash),
		}, {
			Role:        RoleEmployee,
			Name:        "Борис Смирнов",
			CompanyName: stringPtr("Ромашка"),
			Email:       "boris@romashka.example.com",
			Password:    string(hash),
		}, {
			Role:        RoleEmployee,
			Name:        "Вера Кузнецова",
			CompanyName: stringPtr("Ромашка"),
			Email:       "vera@romashka.example.com",
			Password:    string(hash),
		},
	}

	for _, user := range users {
		var existingUser User
		if err := db.First(&existingUser, "email = ?", user.Email).Error; err == nil {
			log.Info("User already exists", "email", user.Email)
			continue
		}
		log.Info("Seeding user", "email", user.Email, "role", user.Role)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "email", user.Email)
		}
	}

	return nil
}
