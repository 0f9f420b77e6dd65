package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultAuthorName is used when a project is created without an explicit author.
const DefaultAuthorName = "MD Mahamud"

// MaxFeaturedProjects caps how many projects can occupy the home-page highlight
// slot at the same time. The cap is checked against the store before a create or
// update runs, so two concurrent requests can overshoot it slightly.
const MaxFeaturedProjects = 6

// Project represents one portfolio piece with its images and publish flags
type Project struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title          string                      `json:"title" gorm:"type:text;not null"`
	Description    string                      `json:"description" gorm:"type:text;not null"`
	ThumbnailImage string                      `json:"thumbnailImage,omitempty" gorm:"type:text"`
	PosterImage    string                      `json:"posterImage,omitempty" gorm:"type:text"`
	ElementsImages datatypes.JSONSlice[string] `json:"elementsImages"`
	AuthorName     string                      `json:"authorName" gorm:"type:text;not null"`
	Likes          int                         `json:"likes" gorm:"not null;default:0"`
	PublishDate    time.Time                   `json:"publishDate" gorm:"not null"`
	AccessibleLink string                      `json:"accessibleLink,omitempty" gorm:"type:text"`
	Published      bool                        `json:"published" gorm:"not null;default:false"`
	FeaturedOnHome bool                        `json:"featuredOnHome" gorm:"not null;default:false"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// HasImage reports whether the project satisfies the thumbnail-or-poster rule.
func (p Project) HasImage() bool {
	return p.ThumbnailImage != "" || p.PosterImage != ""
}
