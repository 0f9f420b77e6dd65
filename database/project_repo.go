package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdmahamud/portfolio-backend/models"
)

// ProjectFilter narrows project queries to the public or home-page views.
type ProjectFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
}

// ListOptions control projection and pagination for project listings.
// A Limit of zero or less means no pagination: the full filtered list is
// returned. Fields must already be column names vetted by the caller.
type ListOptions struct {
	Fields []string
	Page   int
	Limit  int
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func (r *ProjectRepo) scoped(ctx context.Context, filter ProjectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("featured_on_home = ?", true)
	}
	return q
}

// FindAll returns projects matching the filter, newest first.
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter, opts ListOptions) ([]*models.Project, error) {
	q := r.scoped(ctx, filter).Order("created_at DESC")
	if len(opts.Fields) > 0 {
		q = q.Select(opts.Fields)
	}
	if opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * opts.Limit).Limit(opts.Limit)
	}

	var projects []*models.Project
	err := q.Find(&projects).Error
	return projects, err
}

// Count returns the number of projects matching the filter.
func (r *ProjectRepo) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Count(&count).Error
	return count, err
}

// CountFeatured counts projects currently featured on the home page, optionally
// excluding one project (the one being updated).
func (r *ProjectRepo) CountFeatured(ctx context.Context, exclude uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{}).Where("featured_on_home = ?", true)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// FindByID returns a project by its ID, or nil if no project matches.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// ApplyUpdates applies the given column updates to a project and returns the
// updated row. The caller is responsible for restricting updates to permitted
// columns.
func (r *ProjectRepo) ApplyUpdates(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Project, error) {
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Project{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// IncrementLikes bumps the likes counter by one as a single storage-level
// update, never read-modify-write, so concurrent likes are not lost. Returns
// the new count and whether the project exists.
func (r *ProjectRepo) IncrementLikes(ctx context.Context, id uuid.UUID) (int, bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if tx.Error != nil {
		return 0, false, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, false, nil
	}

	var project models.Project
	if err := r.db.WithContext(ctx).Select("likes").First(&project, "id = ?", id).Error; err != nil {
		return 0, false, err
	}
	return project.Likes, true, nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}
