package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository  StudentRepository
	UserRepository     UserRepository
	AuditRepository    AuditRepository
	FileRepository     FileRepository
	EmailLogRepository EmailLogRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:  NewStudentRepository(db),
		UserRepository:     NewUserRepository(db),
		AuditRepository:    NewAuditRepository(db),
		FileRepository:     NewFileRepository(db),
		EmailLogRepository: NewEmailLogRepository(db),
	}
}
