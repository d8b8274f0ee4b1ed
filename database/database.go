package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/config"
	"github.com/studentdesk/SDPortal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate แยกออกมาเพื่อให้ test ใช้กับ sqlite in-memory ได้ด้วย
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.Student{},
		&models.Teacher{},
		&models.AdvisorAssignment{},
		&models.User{},
		&models.DutyLeaveRequest{},
		&models.Certificate{},
		&models.Placement{},
		&models.Training{},
		&models.Project{},
		&models.ResearchPaper{},
	)
}
