package storage

import (
	"context"
	"time"

	"github.com/MosinFAM/microblog/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

var _ Storage = (*MockStorage)(nil)

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) TouchLastSeen(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockStorage) UpdateProfile(ctx context.Context, userID int64, username, aboutMe string) error {
	args := m.Called(ctx, userID, username, aboutMe)
	return args.Error(0)
}

func (m *MockStorage) Follow(ctx context.Context, followerID, followedID int64) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockStorage) Unfollow(ctx context.Context, followerID, followedID int64) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockStorage) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) FollowCounts(ctx context.Context, userID int64) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStorage) AddPost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockStorage) ExplorePosts(ctx context.Context, page, perPage int) (models.Page[models.Post], error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).(models.Page[models.Post]), args.Error(1)
}

func (m *MockStorage) FollowedPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).(models.Page[models.Post]), args.Error(1)
}

func (m *MockStorage) UserPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).(models.Page[models.Post]), args.Error(1)
}

func (m *MockStorage) SearchPosts(ctx context.Context, query string, page, perPage int) ([]models.Post, int, error) {
	args := m.Called(ctx, query, page, perPage)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Int(1), args.Error(2)
}

func (m *MockStorage) ListCompanies(ctx context.Context, page, perPage int) (models.Page[models.Company], error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).(models.Page[models.Company]), args.Error(1)
}

func (m *MockStorage) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	args := m.Called(ctx, id)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *MockStorage) AddCompany(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockStorage) UpdateCompany(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockStorage) DeleteCompany(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
