package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/mdmahamud/portfolio-backend/database"
	"github.com/mdmahamud/portfolio-backend/models"
)

// In-memory store implementations so the handlers can be exercised over HTTP
// without a live postgres.

type fakeProjectStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Project
	seq  int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{rows: make(map[uuid.UUID]*models.Project)}
}

func (s *fakeProjectStore) matching(filter database.ProjectFilter) []*models.Project {
	var out []*models.Project
	for _, p := range s.rows {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.FeaturedOnly && !p.FeaturedOnHome {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *fakeProjectStore) FindAll(_ context.Context, filter database.ProjectFilter, opts database.ListOptions) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.matching(filter)
	if opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * opts.Limit
		if start >= len(out) {
			return nil, nil
		}
		end := start + opts.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (s *fakeProjectStore) Count(_ context.Context, filter database.ProjectFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(filter))), nil
}

func (s *fakeProjectStore) CountFeatured(_ context.Context, exclude uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, p := range s.rows {
		if p.FeaturedOnHome && p.ID != exclude {
			count++
		}
	}
	return count, nil
}

func (s *fakeProjectStore) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProjectStore) Add(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	// Distinct creation times so newest-first ordering is deterministic.
	project.CreatedAt = time.Unix(int64(s.seq), 0)
	project.UpdatedAt = project.CreatedAt
	copied := *project
	s.rows[project.ID] = &copied
	return nil
}

func (s *fakeProjectStore) ApplyUpdates(_ context.Context, id uuid.UUID, updates map[string]any) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	for column, value := range updates {
		switch column {
		case "title":
			p.Title = value.(string)
		case "description":
			p.Description = value.(string)
		case "thumbnail_image":
			p.ThumbnailImage = value.(string)
		case "poster_image":
			p.PosterImage = value.(string)
		case "accessible_link":
			p.AccessibleLink = value.(string)
		case "elements_images":
			p.ElementsImages = value.(datatypes.JSONSlice[string])
		case "published":
			p.Published = value.(bool)
		case "featured_on_home":
			p.FeaturedOnHome = value.(bool)
		}
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (s *fakeProjectStore) IncrementLikes(_ context.Context, id uuid.UUID) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[id]
	if !ok {
		return 0, false, nil
	}
	p.Likes++
	return p.Likes, true, nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

type fakeMessageStore struct {
	mu   sync.Mutex
	rows []*models.ContactMessage
	seq  int
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) FindAllNewestFirst(_ context.Context) ([]*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.ContactMessage, 0, len(s.rows))
	for _, m := range s.rows {
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeMessageStore) CountByEmail(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, m := range s.rows {
		if m.Email == email {
			count++
		}
	}
	return count, nil
}

func (s *fakeMessageStore) Add(_ context.Context, message *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	message.CreatedAt = time.Unix(int64(s.seq), 0)
	message.UpdatedAt = message.CreatedAt
	copied := *message
	s.rows = append(s.rows, &copied)
	return nil
}

func (s *fakeMessageStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.rows {
		if m.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return nil
}

type fakeUserStore struct {
	mu   sync.Mutex
	rows []*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{}
}

func (s *fakeUserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.rows {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Add(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	s.rows = append(s.rows, &copied)
	return nil
}

// testEnv assembles the full route tree over the fakes.
type testEnv struct {
	router   *chi.Mux
	projects *fakeProjectStore
	messages *fakeMessageStore
	users    *fakeUserStore
	tokens   tokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		projects: newFakeProjectStore(),
		messages: newFakeMessageStore(),
		users:    newFakeUserStore(),
		tokens:   newTokenIssuer("test-secret", time.Hour),
	}

	handlers := &routeHandlers{
		projectHandler: newProjectHandler(env.projects, env.users, 5*time.Minute),
		messageHandler: newMessageHandler(env.messages, nil),
		authHandler:    newAuthHandler(env.users, env.tokens, false),
	}

	env.router = chi.NewRouter()
	setupRoutes(env.router, handlers, newAuthMiddleware(env.tokens))
	return env
}

const testAdminPassword = "correct-horse-battery"

// seedAdmin stores the admin account directly and returns a valid session token.
func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: string(hash),
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, e.users.Add(context.Background(), admin))

	token, err := e.tokens.issue(admin)
	require.NoError(t, err)
	return token
}

// do performs a request against the route tree, JSON-encoding body if non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}
