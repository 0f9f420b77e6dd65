package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/mdmahamud/portfolio-backend/database"
	"github.com/mdmahamud/portfolio-backend/models"
)

// The handlers depend on these narrow store interfaces rather than the
// concrete gorm repositories so they can be exercised against in-memory
// implementations in tests. The database package satisfies all three.

type projectStore interface {
	FindAll(ctx context.Context, filter database.ProjectFilter, opts database.ListOptions) ([]*models.Project, error)
	Count(ctx context.Context, filter database.ProjectFilter) (int64, error)
	CountFeatured(ctx context.Context, exclude uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	ApplyUpdates(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Project, error)
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type messageStore interface {
	FindAllNewestFirst(ctx context.Context) ([]*models.ContactMessage, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Add(ctx context.Context, message *models.ContactMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userStore interface {
	Count(ctx context.Context) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

var (
	_ projectStore = (*database.ProjectRepo)(nil)
	_ messageStore = (*database.MessageRepo)(nil)
	_ userStore    = (*database.UserRepo)(nil)
)
