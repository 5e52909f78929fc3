package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const TestPassword = "Password123"

var ErrDockerUnavailable = errors.New("docker unavailable")

// PostgresDB is a disposable database shared by the tests of one package.
type PostgresDB struct {
	DB        *gorm.DB
	DSN       string
	container *tcpostgres.PostgresContainer
}

// StartPostgres runs a postgres container and migrates every model. A
// missing Docker daemon is reported as an error so callers can skip.
func StartPostgres(ctx context.Context) (*PostgresDB, error) {
	container, err := runContainer(ctx, func(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
		return tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("credmatrix_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			tcpostgres.BasicWaitStrategies(),
		)
	})
	if err != nil {
		if container != nil {
			_ = testcontainers.TerminateContainer(container)
		}
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, err
	}

	db, err := OpenDB(dsn)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &PostgresDB{DB: db, DSN: dsn, container: container}, nil
}

// runContainer calls run and turns a testcontainers panic (it panics when
// no Docker host can be found) into an error.
func runContainer[T any](ctx context.Context, run func(context.Context) (T, error)) (c T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			c, err = zero, fmt.Errorf("%w: %v", ErrDockerUnavailable, r)
		}
	}()
	return run(ctx)
}

// OpenDB opens a gorm connection configured like the application.
func OpenDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func (p *PostgresDB) Close() {
	if sqlDB, err := p.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = testcontainers.TerminateContainer(p.container)
}

// Reset empties every table.
func (p *PostgresDB) Reset(t *testing.T) {
	t.Helper()

	tables := make([]string, 0, len(models.All()))
	for _, m := range models.All() {
		stmt := &gorm.Statement{DB: p.DB}
		require.NoError(t, stmt.Parse(m))
		tables = append(tables, stmt.Schema.Table)
	}
	require.NoError(t, p.DB.Exec("TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE").Error)
}

// RequireDB skips the test when no database could be started.
func RequireDB(t *testing.T, p *PostgresDB) *gorm.DB {
	t.Helper()
	if p == nil {
		t.Skip("postgres container unavailable")
	}
	p.Reset(t)
	return p.DB
}

// CreateUser inserts an active user with the profile of its role. The
// password is always TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	user := &models.User{
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Omit("LearnerProfile", "InstitutionProfile", "EmployerProfile").Create(user).Error)

	name := strings.Split(email, "@")[0]
	switch role {
	case models.UserRoleLearner:
		user.LearnerProfile = &models.LearnerProfile{UserID: user.ID, FullName: name}
		require.NoError(t, db.Create(user.LearnerProfile).Error)
	case models.UserRoleInstitution:
		user.InstitutionProfile = &models.InstitutionProfile{UserID: user.ID, Name: name, Code: strings.ToUpper(name)}
		require.NoError(t, db.Create(user.InstitutionProfile).Error)
	case models.UserRoleEmployer:
		user.EmployerProfile = &models.EmployerProfile{UserID: user.ID, CompanyName: name}
		require.NoError(t, db.Create(user.EmployerProfile).Error)
	}
	return user
}

// CreateCredential inserts a credential for learnerID.
func CreateCredential(t *testing.T, db *gorm.DB, learnerID string, status models.VerificationStatus, level int, skills ...string) *models.Credential {
	t.Helper()

	tags := make([]models.SkillTag, 0, len(skills))
	for _, s := range skills {
		tags = append(tags, models.SkillTag{Name: s, Category: "general"})
	}
	c := &models.Credential{
		LearnerID:    learnerID,
		Title:        "Credential " + time.Now().Format("150405.000000"),
		Type:         models.CredentialTypeCertificate,
		NSQFLevel:    level,
		Skills:       tags,
		SkillsSource: models.SourceManual,
		LevelSource:  models.SourceManual,
		Status:       status,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateJob inserts a job for employerID.
func CreateJob(t *testing.T, db *gorm.DB, employerID string, status models.JobStatus, minLevel int, skills ...string) *models.Job {
	t.Helper()

	required := make([]models.RequiredSkill, 0, len(skills))
	for _, s := range skills {
		required = append(required, models.RequiredSkill{Name: s, Mandatory: true})
	}
	job := &models.Job{
		EmployerID:     employerID,
		Title:          "Job " + time.Now().Format("150405.000000"),
		Description:    "Test description",
		Location:       "Pune",
		RequiredSkills: required,
		MinNSQFLevel:   minLevel,
		Status:         status,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}
