package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for postgres shared by every repository
// fake below. One mutex serialises all access, which also makes the review
// check-then-insert atomic the way the database transaction does.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[string]*models.User
	categories map[int64]*models.Category
	genres     map[int64]*models.Genre
	titles     map[int64]*models.Title
	titleGenre map[int64][]int64
	reviews    map[int64]*models.Review
	comments   map[int64]*models.Comment
	codes      map[string]storedCode
}

type storedCode struct {
	hash      string
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		categories: map[int64]*models.Category{},
		genres:     map[int64]*models.Genre{},
		titles:     map[int64]*models.Title{},
		titleGenre: map[int64][]int64{},
		reviews:    map[int64]*models.Review{},
		comments:   map[int64]*models.Comment{},
		codes:      map[string]storedCode{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func window[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// users

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.DateJoined = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r memUsers) List(_ context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memUsers) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

// categories and genres

type memCategories struct{ *memStore }

func (r memCategories) List(_ context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.categories {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memCategories) FindBySlugs(_ context.Context, slugs []string) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, slug := range slugs {
		for _, c := range r.categories {
			if c.Slug == slug {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (r memCategories) Create(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = r.id()
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r memCategories) DeleteBySlug(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.categories {
		if c.Slug == slug {
			delete(r.categories, id)
			for _, t := range r.titles {
				if t.CategoryID != nil && *t.CategoryID == id {
					t.CategoryID = nil
				}
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memGenres struct{ *memStore }

func (r memGenres) List(_ context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Genre{}
	for _, g := range r.genres {
		if search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memGenres) FindBySlug(_ context.Context, slug string) (*models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.genres {
		if g.Slug == slug {
			copied := *g
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memGenres) FindBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Genre{}
	for _, slug := range slugs {
		for _, g := range r.genres {
			if g.Slug == slug {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}

func (r memGenres) Create(_ context.Context, g *models.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.genres {
		if existing.Slug == g.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	g.ID = r.id()
	copied := *g
	r.genres[g.ID] = &copied
	return nil
}

func (r memGenres) DeleteBySlug(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.genres {
		if g.Slug == slug {
			delete(r.genres, id)
			for titleID, ids := range r.titleGenre {
				kept := ids[:0]
				for _, gid := range ids {
					if gid != id {
						kept = append(kept, gid)
					}
				}
				r.titleGenre[titleID] = kept
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// titles

type memTitles struct{ *memStore }

// expand fills category, genres and the rating; caller holds the lock
func (r memTitles) expand(t *models.Title) models.Title {
	out := *t
	out.Category = nil
	if t.CategoryID != nil {
		if c, ok := r.categories[*t.CategoryID]; ok {
			copied := *c
			out.Category = &copied
		}
	}
	out.Genres = []models.Genre{}
	for _, gid := range r.titleGenre[t.ID] {
		if g, ok := r.genres[gid]; ok {
			out.Genres = append(out.Genres, *g)
		}
	}
	sum, n := 0, 0
	for _, rv := range r.reviews {
		if rv.TitleID == t.ID {
			sum += rv.Score
			n++
		}
	}
	out.Rating = nil
	if n > 0 {
		avg := float64(sum) / float64(n)
		out.Rating = &avg
	}
	return out
}

func (r memTitles) matches(t models.Title, f repository.TitleFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Year != nil && (t.Year == nil || *t.Year != *f.Year) {
		return false
	}
	if f.Category != "" && (t.Category == nil || t.Category.Slug != f.Category) {
		return false
	}
	if f.Genre != "" {
		found := false
		for _, g := range t.Genres {
			if g.Slug == f.Genre {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r memTitles) List(_ context.Context, f repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Title{}
	for _, t := range r.titles {
		if expanded := r.expand(t); r.matches(expanded, f) {
			out = append(out, expanded)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memTitles) GetByID(_ context.Context, id int64) (*models.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	expanded := r.expand(t)
	return &expanded, nil
}

func (r memTitles) setGenres(titleID int64, genres []models.Genre) {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	r.titleGenre[titleID] = ids
}

func (r memTitles) Create(_ context.Context, t *models.Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.id()
	stored := *t
	stored.Genres, stored.Category = nil, nil
	r.titles[t.ID] = &stored
	r.setGenres(t.ID, t.Genres)
	return nil
}

func (r memTitles) Update(_ context.Context, t *models.Title, genres []models.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.titles[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *t
	stored.Genres, stored.Category, stored.Rating = nil, nil, nil
	r.titles[t.ID] = &stored
	if genres != nil {
		r.setGenres(t.ID, genres)
	}
	return nil
}

func (r memTitles) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.titles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.titles, id)
	delete(r.titleGenre, id)
	for rid, rv := range r.reviews {
		if rv.TitleID == id {
			delete(r.reviews, rid)
			for cid, c := range r.comments {
				if c.ReviewID == rid {
					delete(r.comments, cid)
				}
			}
		}
	}
	return nil
}

// reviews

type memReviews struct{ *memStore }

func (r memReviews) withAuthor(rv *models.Review) models.Review {
	out := *rv
	if u, ok := r.users[rv.AuthorID]; ok {
		out.Author = *u
	}
	return out
}

func (r memReviews) ListByTitle(_ context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.reviews {
		if rv.TitleID == titleID {
			out = append(out, r.withAuthor(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memReviews) GetInTitle(_ context.Context, titleID, reviewID int64) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[reviewID]
	if !ok || rv.TitleID != titleID {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.withAuthor(rv)
	return &out, nil
}

func (r memReviews) exists(titleID int64, authorID string) bool {
	for _, rv := range r.reviews {
		if rv.TitleID == titleID && rv.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (r memReviews) ExistsForAuthor(_ context.Context, titleID int64, authorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exists(titleID, authorID), nil
}

func (r memReviews) CreateUnique(_ context.Context, rv *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exists(rv.TitleID, rv.AuthorID) {
		return repository.ErrDuplicateReview
	}
	rv.ID = r.id()
	rv.PubDate = time.Now()
	stored := *rv
	stored.Author = models.User{}
	r.reviews[rv.ID] = &stored
	return nil
}

func (r memReviews) Update(_ context.Context, rv *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reviews[rv.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Text, stored.Score = rv.Text, rv.Score
	return nil
}

func (r memReviews) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.reviews, id)
	for cid, c := range r.comments {
		if c.ReviewID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r memReviews) WithTx(*gorm.DB) repository.ReviewRepository {
	return r
}

// comments

type memComments struct{ *memStore }

func (r memComments) withAuthor(c *models.Comment) models.Comment {
	out := *c
	if u, ok := r.users[c.AuthorID]; ok {
		out.Author = *u
	}
	return out
}

func (r memComments) ListByReview(_ context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			out = append(out, r.withAuthor(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page, pageSize), int64(len(out)), nil
}

func (r memComments) GetInReview(_ context.Context, reviewID, commentID int64) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.withAuthor(c)
	return &out, nil
}

func (r memComments) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	c.PubDate = time.Now()
	stored := *c
	stored.Author = models.User{}
	r.comments[c.ID] = &stored
	return nil
}

func (r memComments) Update(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.comments[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Text = c.Text
	return nil
}

func (r memComments) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}

// confirmation codes

type memCodes struct{ *memStore }

func (r memCodes) Save(_ context.Context, userID, hash string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[userID] = storedCode{hash: hash, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r memCodes) Get(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[userID]
	if !ok || !time.Now().Before(code.expiresAt) {
		return "", repository.ErrCodeNotFound
	}
	return code.hash, nil
}

func (r memCodes) Consume(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[userID]
	if !ok || code.hash != hash || !time.Now().Before(code.expiresAt) {
		return repository.ErrCodeNotFound
	}
	delete(r.codes, userID)
	return nil
}
