package database

import (
	"gorm.io/gorm"

	"github.com/mdmahamud/portfolio-backend/models"
)

type Database struct {
	projectRepo *ProjectRepo
	messageRepo *MessageRepo
	userRepo    *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
		messageRepo: NewMessageRepo(db),
		userRepo:    NewUserRepo(db),
	}
}

// Migrate creates or updates the three collections this system owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.ContactMessage{},
		&models.User{},
	)
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}
