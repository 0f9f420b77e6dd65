package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmahamud/portfolio-backend/models"
)

func seedProject(t *testing.T, env *testEnv, mutate func(*models.Project)) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:             uuid.New(),
		Title:          "Seeded",
		Description:    "Seeded description",
		ThumbnailImage: "http://x/thumb.png",
		ElementsImages: []string{},
		AuthorName:     models.DefaultAuthorName,
	}
	if mutate != nil {
		mutate(project)
	}
	require.NoError(t, env.projects.Add(context.Background(), project))
	return project
}

func TestCreateAndGetProject(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/projects", map[string]any{
		"title":          "A",
		"description":    "B",
		"thumbnailImage": "http://x/img.png",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeJSON[models.Project](t, w)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "B", created.Description)
	assert.Equal(t, "http://x/img.png", created.ThumbnailImage)
	assert.Equal(t, 0, created.Likes)
	assert.Equal(t, models.DefaultAuthorName, created.AuthorName)
	assert.False(t, created.Published)
	assert.False(t, created.FeaturedOnHome)
	assert.NotNil(t, created.ElementsImages)

	w = env.do(t, http.MethodGet, "/projects/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	fetched := decodeJSON[models.Project](t, w)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "A", fetched.Title)
	assert.Equal(t, "B", fetched.Description)
	assert.Equal(t, "http://x/img.png", fetched.ThumbnailImage)
	assert.Equal(t, 0, fetched.Likes)
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAdmin(t)

	t.Run("NoSession", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/projects", map[string]any{"title": "A"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/projects", map[string]any{
			"description":    "B",
			"thumbnailImage": "http://x/img.png",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NoImages", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/projects", map[string]any{
			"title":       "A",
			"description": "B",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedElementsImagesDegradesToEmpty", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/projects", map[string]any{
			"title":          "A",
			"description":    "B",
			"posterImage":    "http://x/poster.png",
			"elementsImages": "not-an-array",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		created := decodeJSON[models.Project](t, w)
		assert.Empty(t, created.ElementsImages)
		assert.NotNil(t, created.ElementsImages)
	})
}

func TestCreateProjectFeaturedCap(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAdmin(t)

	for i := 0; i < models.MaxFeaturedProjects; i++ {
		seedProject(t, env, func(p *models.Project) {
			p.Title = fmt.Sprintf("Featured %d", i)
			p.FeaturedOnHome = true
		})
	}

	w := env.do(t, http.MethodPost, "/projects", map[string]any{
		"title":          "One too many",
		"description":    "B",
		"thumbnailImage": "http://x/img.png",
		"featuredOnHome": true,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-featured creates are unaffected by the cap.
	w = env.do(t, http.MethodPost, "/projects", map[string]any{
		"title":          "Plain",
		"description":    "B",
		"thumbnailImage": "http://x/img.png",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListProjects(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 7; i++ {
		seedProject(t, env, func(p *models.Project) {
			p.Title = fmt.Sprintf("Project %d", i)
			p.Published = i%2 == 0
		})
	}

	t.Run("FullListNewestFirst", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/projects", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		projects := decodeJSON[[]models.Project](t, w)
		require.Len(t, projects, 7)
		assert.Equal(t, "Project 6", projects[0].Title)
		assert.Equal(t, "Project 0", projects[6].Title)
	})

	t.Run("PublishedOnly", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/projects?published=true", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		projects := decodeJSON[[]models.Project](t, w)
		require.Len(t, projects, 4)
		for _, p := range projects {
			assert.True(t, p.Published)
		}
	})

	t.Run("CountOnlyMatchesListLength", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/projects?published=true&countOnly=true", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		counted := decodeJSON[map[string]int64](t, w)
		assert.Equal(t, int64(4), counted["total"])
	})

	t.Run("Pagination", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/projects?limit=3&page=2", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		projects := decodeJSON[[]models.Project](t, w)
		require.Len(t, projects, 3)
		assert.Equal(t, "Project 3", projects[0].Title)
	})

	t.Run("WithMeta", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/projects?limit=3&page=2&withMeta=true", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		page := decodeJSON[ProjectPage](t, w)
		assert.Equal(t, int64(7), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNextPage)
		assert.Len(t, page.Projects, 3)
	})

	t.Run("BadLimitMeansNoPagination", func(t *testing.T) {
		for _, limit := range []string{"0", "-5", "abc"} {
			w := env.do(t, http.MethodGet, "/projects?limit="+limit, nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			projects := decodeJSON[[]models.Project](t, w)
			assert.Len(t, projects, 7, "limit=%s", limit)
		}
	})

	t.Run("EmptyStoreReturnsEmptyArray", func(t *testing.T) {
		empty := newTestEnv(t)
		w := empty.do(t, http.MethodGet, "/projects", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestUpdateProject(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAdmin(t)

	t.Run("AllowListedFieldsApply", func(t *testing.T) {
		project := seedProject(t, env, nil)

		w := env.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":        project.ID,
			"title":     "Renamed",
			"published": true,
			"likes":     999, // not allow-listed, silently ignored
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		updated := decodeJSON[models.Project](t, w)
		assert.Equal(t, "Renamed", updated.Title)
		assert.True(t, updated.Published)
		assert.Equal(t, 0, updated.Likes)
	})

	t.Run("ClearingBothImagesRejected", func(t *testing.T) {
		project := seedProject(t, env, func(p *models.Project) {
			p.ThumbnailImage = ""
			p.PosterImage = "http://x/poster.png"
		})

		w := env.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":          project.ID,
			"posterImage": "",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Stored document is unchanged.
		stored, err := env.projects.FindByID(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://x/poster.png", stored.PosterImage)
	})

	t.Run("SwappingImagesAllowed", func(t *testing.T) {
		project := seedProject(t, env, nil)

		w := env.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":             project.ID,
			"thumbnailImage": "",
			"posterImage":    "http://x/new-poster.png",
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		updated := decodeJSON[models.Project](t, w)
		assert.Empty(t, updated.ThumbnailImage)
		assert.Equal(t, "http://x/new-poster.png", updated.PosterImage)
	})

	t.Run("UnknownID", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":    uuid.New(),
			"title": "Nope",
		}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("FeaturedToggleRespectsCap", func(t *testing.T) {
		capEnv := newTestEnv(t)
		capToken := capEnv.seedAdmin(t)

		var featured *models.Project
		for i := 0; i < models.MaxFeaturedProjects; i++ {
			featured = seedProject(t, capEnv, func(p *models.Project) {
				p.FeaturedOnHome = true
			})
		}
		plain := seedProject(t, capEnv, nil)

		w := capEnv.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":             plain.ID,
			"featuredOnHome": true,
		}, capToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// An already-featured project is excluded from its own cap check.
		w = capEnv.do(t, http.MethodPatch, "/projects", map[string]any{
			"id":             featured.ID,
			"featuredOnHome": true,
			"title":          "Still featured",
		}, capToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAdmin(t)
	project := seedProject(t, env, nil)

	t.Run("WrongPasswordForbidden", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/projects", map[string]any{
			"id":       project.ID,
			"password": "wrong",
		}, token)
		assert.Equal(t, http.StatusForbidden, w.Code)

		stored, err := env.projects.FindByID(context.Background(), project.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("UnknownProject", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/projects", map[string]any{
			"id":       uuid.New(),
			"password": testAdminPassword,
		}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CorrectPasswordDeletes", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/projects", map[string]any{
			"id":       project.ID,
			"password": testAdminPassword,
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := env.projects.FindByID(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestLikeProject(t *testing.T) {
	env := newTestEnv(t)
	project := seedProject(t, env, nil)

	// No server-side dedup: two sequential likes both count.
	w := env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/like", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeJSON[map[string]int](t, w)["likes"])

	w = env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/like", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeJSON[map[string]int](t, w)["likes"])

	w = env.do(t, http.MethodPost, "/projects/"+uuid.NewString()+"/like", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 0, parseLimit(""))
	assert.Equal(t, 0, parseLimit("abc"))
	assert.Equal(t, 0, parseLimit("-1"))
	assert.Equal(t, 0, parseLimit("0"))
	assert.Equal(t, 10, parseLimit("10"))
	assert.Equal(t, maxPageLimit, parseLimit("500"))
}

func TestParseFields(t *testing.T) {
	assert.Nil(t, parseFields(""))
	assert.Equal(t, []string{"id", "title", "thumbnail_image"}, parseFields("id,title,thumbnailImage"))
	// Unknown names are dropped rather than reaching the query.
	assert.Equal(t, []string{"title"}, parseFields("title,drop table,likes;--"))
}
