package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	AccountRepository     *AccountRepository
	AchievementRepository *AchievementRepository
	SessionRepository     *SessionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(db),
		AccountRepository:     NewAccountRepository(db),
		AchievementRepository: NewAchievementRepository(db),
		SessionRepository:     NewSessionRepository(db),
	}
}
