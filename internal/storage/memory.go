package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MosinFAM/microblog/internal/models"
)

type followKey struct {
	follower, followed int64
}

// MemoryStorage - хранилище в памяти
type MemoryStorage struct {
	users     map[int64]models.User
	posts     map[int64]models.Post
	follows   map[followKey]models.Follow
	companies map[int64]models.Company

	nextUserID    int64
	nextPostID    int64
	nextCompanyID int64

	now func() time.Time
	mu  sync.RWMutex
}

// NewMemoryStorage создает новое in-memory хранилище
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:     make(map[int64]models.User),
		posts:     make(map[int64]models.Post),
		follows:   make(map[followKey]models.Follow),
		companies: make(map[int64]models.Company),
		now:       time.Now,
	}
}

func (s *MemoryStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
		if user.Email != "" && strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	s.users[user.ID] = *user
	slog.Debug("user created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %q: %w", email, ErrNotFound)
}

func (s *MemoryStorage) TouchLastSeen(_ context.Context, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	u.LastSeen = at
	s.users[userID] = u
	return nil
}

func (s *MemoryStorage) UpdateProfile(_ context.Context, userID int64, username, aboutMe string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	for id, other := range s.users {
		if id != userID && other.Username == username {
			return ErrUsernameTaken
		}
	}
	u.Username = username
	u.AboutMe = aboutMe
	s.users[userID] = u
	return nil
}

func (s *MemoryStorage) Follow(_ context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[followedID]; !ok {
		return fmt.Errorf("user %d: %w", followedID, ErrNotFound)
	}
	key := followKey{followerID, followedID}
	if _, exists := s.follows[key]; exists {
		return nil
	}
	s.follows[key] = models.Follow{FollowerID: followerID, FollowedID: followedID, CreatedAt: s.now().UTC()}
	return nil
}

func (s *MemoryStorage) Unfollow(_ context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows, followKey{followerID, followedID})
	return nil
}

func (s *MemoryStorage) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[followKey{followerID, followedID}]
	return ok, nil
}

func (s *MemoryStorage) FollowCounts(_ context.Context, userID int64) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var followers, following int
	for key := range s.follows {
		if key.followed == userID {
			followers++
		}
		if key.follower == userID {
			following++
		}
	}
	return followers, following, nil
}

func (s *MemoryStorage) AddPost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.users[post.AuthorID]
	if !ok {
		return fmt.Errorf("author %d: %w", post.AuthorID, ErrNotFound)
	}

	s.nextPostID++
	post.ID = s.nextPostID
	post.Author = author.Username
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}
	s.posts[post.ID] = *post
	slog.Debug("post added", "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

func (s *MemoryStorage) ExplorePosts(_ context.Context, page, perPage int) (models.Page[models.Post], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.postPage(page, perPage, func(models.Post) bool { return true }), nil
}

func (s *MemoryStorage) FollowedPosts(_ context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.postPage(page, perPage, func(p models.Post) bool {
		if p.AuthorID == userID {
			return true
		}
		_, ok := s.follows[followKey{userID, p.AuthorID}]
		return ok
	}), nil
}

func (s *MemoryStorage) UserPosts(_ context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.postPage(page, perPage, func(p models.Post) bool { return p.AuthorID == userID }), nil
}

// SearchPosts ranks posts by how many query terms their body contains.
func (s *MemoryStorage) SearchPosts(_ context.Context, query string, page, perPage int) ([]models.Post, int, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []models.Post{}, 0, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type hit struct {
		post  models.Post
		score int
	}
	var hits []hit
	for _, p := range s.posts {
		words := make(map[string]bool)
		for _, w := range strings.FieldsFunc(strings.ToLower(p.Body), isWordSeparator) {
			words[w] = true
		}
		score := 0
		for _, term := range terms {
			if words[term] {
				score++
			}
		}
		if score > 0 {
			p.Author = s.users[p.AuthorID].Username
			hits = append(hits, hit{p, score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return newerFirst(hits[i].post, hits[j].post)
	})

	start, end := models.Bounds(page, perPage, len(hits))
	result := make([]models.Post, 0, end-start)
	for _, h := range hits[start:end] {
		result = append(result, h.post)
	}
	return result, len(hits), nil
}

func (s *MemoryStorage) ListCompanies(_ context.Context, page, perPage int) (models.Page[models.Company], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	page = models.NormalizePage(page)
	start, end := models.Bounds(page, perPage, len(all))
	return models.Page[models.Company]{
		Items:   append([]models.Company{}, all[start:end]...),
		Page:    page,
		PerPage: perPage,
		Total:   len(all),
	}, nil
}

func (s *MemoryStorage) GetCompany(_ context.Context, id int64) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (s *MemoryStorage) AddCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCompanyID++
	company.ID = s.nextCompanyID
	s.companies[company.ID] = *company
	return nil
}

func (s *MemoryStorage) UpdateCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[company.ID]; !ok {
		return fmt.Errorf("company %d: %w", company.ID, ErrNotFound)
	}
	s.companies[company.ID] = *company
	return nil
}

func (s *MemoryStorage) DeleteCompany(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	delete(s.companies, id)
	return nil
}

// postPage must be called with s.mu held.
func (s *MemoryStorage) postPage(page, perPage int, keep func(models.Post) bool) models.Page[models.Post] {
	var matched []models.Post
	for _, p := range s.posts {
		if keep(p) {
			p.Author = s.users[p.AuthorID].Username
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return newerFirst(matched[i], matched[j]) })

	page = models.NormalizePage(page)
	start, end := models.Bounds(page, perPage, len(matched))
	return models.Page[models.Post]{
		Items:   append([]models.Post{}, matched[start:end]...),
		Page:    page,
		PerPage: perPage,
		Total:   len(matched),
	}
}

func newerFirst(a, b models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func isWordSeparator(r rune) bool {
	return !(r == '\'' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r > 127)
}
