package storage

import (
	"context"
	"errors"
	"time"

	"github.com/MosinFAM/microblog/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
	ErrSelfFollow    = errors.New("user cannot follow itself")
)

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastSeen(ctx context.Context, userID int64, at time.Time) error
	UpdateProfile(ctx context.Context, userID int64, username, aboutMe string) error
}

// FollowStorage keeps the follow edge set. Follow and Unfollow are idempotent.
type FollowStorage interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowCounts(ctx context.Context, userID int64) (followers, following int, err error)
}

// PostStorage lists posts newest first.
type PostStorage interface {
	AddPost(ctx context.Context, post *models.Post) error
	ExplorePosts(ctx context.Context, page, perPage int) (models.Page[models.Post], error)
	// FollowedPosts includes the user's own posts.
	FollowedPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error)
	UserPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error)
	// SearchPosts returns one page of matches, best first, and the total match count.
	SearchPosts(ctx context.Context, query string, page, perPage int) ([]models.Post, int, error)
}

// CompanyStorage lists companies by ascending id.
type CompanyStorage interface {
	ListCompanies(ctx context.Context, page, perPage int) (models.Page[models.Company], error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	AddCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
}

// Storage - интерфейс для всех типов хранилищ (in-memory и PostgreSQL)
type Storage interface {
	UserStorage
	FollowStorage
	PostStorage
	CompanyStorage
}
