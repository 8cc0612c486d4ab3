package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
)

// sampleStudents is a small applicant set covering every funnel stage,
// used for local development and demos only.
var sampleStudents = []models.Student{
	{Name: "Ayşe Yılmaz", Email: "ayse.yilmaz@example.com", Country: "TUR", ApplicationStatus: models.StatusExploring},
	{Name: "Liam O'Connor", Email: "liam.oconnor@example.com", Country: "IRL", ApplicationStatus: models.StatusShortlisting},
	{Name: "Priya Sharma", Email: "priya.sharma@example.com", Country: "IND", ApplicationStatus: models.StatusApplying},
	{Name: "Daniel Okafor", Email: "daniel.okafor@example.com", Country: "NGA", ApplicationStatus: models.StatusSubmitted},
	{Name: "Sofia Rossi", Email: "sofia.rossi@example.com", Country: "ITA", ApplicationStatus: models.StatusAdmitted},
	{Name: "Chen Wei", Email: "chen.wei@example.com", Country: "CHN", ApplicationStatus: models.StatusDeferred},
}

// CreateDevData populates an empty development database with an admin
// account and a handful of applicant records. Existing data is left alone.
func CreateDevData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	studentRepo := repositories.NewStudentRepository(dbPool)
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Seeding development data...")

	now := time.Now().UTC()
	name := "Development Admin"
	admin := &models.User{
		ID:          "dev-admin",
		Email:       "admin@undergraduation.com",
		Name:        &name,
		Role:        models.RoleAdmin,
		Status:      models.UserStatusActive,
		CreatedAt:   now,
		LastLoginAt: &now,
	}
	// Create is a no-op when the record already exists
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error seeding admin user")
		return err
	}

	total, err := studentRepo.Count(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting students before seed")
		return err
	}
	if total > 0 {
		lgr.Info().Int64("existing", total).Msg("Students already present, skipping sample data")
		return nil
	}

	for i := range sampleStudents {
		student := sampleStudents[i]
		lastActive := now.Add(-time.Duration(i*36) * time.Hour)
		student.LastActive = &lastActive
		if err := studentRepo.Create(ctx, &student); err != nil {
			lgr.Error().Err(err).Str("email", student.Email).Msg("Error seeding student")
			return err
		}
	}

	lgr.Info().Int("students", len(sampleStudents)).Msg("Development data seeded")
	return nil
}
