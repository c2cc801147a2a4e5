package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MosinFAM/microblog/internal/models"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresStorage - хранилище в PostgreSQL
type PostgresStorage struct {
	DB *sql.DB
}

// NewPostgresStorage создаёт экземпляр PostgreSQL-хранилища
func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{DB: db}
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, about_me, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Username, user.Email, user.PasswordHash, user.AboutMe, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		slog.Debug("insert user failed", "username", user.Username, "error", err)
		return userConstraintError(err)
	}
	return nil
}

const userColumns = `id, username, email, password_hash, about_me, last_seen, created_at`

func (s *PostgresStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, fmt.Sprintf("user %d", id))
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row, fmt.Sprintf("user %q", username))
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row, fmt.Sprintf("user with email %q", email))
}

func (s *PostgresStorage) TouchLastSeen(ctx context.Context, userID int64, at time.Time) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET last_seen = $1 WHERE id = $2`, at, userID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("user %d", userID))
}

func (s *PostgresStorage) UpdateProfile(ctx context.Context, userID int64, username, aboutMe string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET username = $1, about_me = $2 WHERE id = $3`, username, aboutMe, userID)
	if err != nil {
		return userConstraintError(err)
	}
	return expectRow(res, fmt.Sprintf("user %d", userID))
}

func (s *PostgresStorage) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("user %d: %w", followedID, ErrNotFound)
	}
	return err
}

func (s *PostgresStorage) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return err
}

func (s *PostgresStorage) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID).Scan(&exists)
	return exists, err
}

func (s *PostgresStorage) FollowCounts(ctx context.Context, userID int64) (int, int, error) {
	var followers, following int
	err := s.DB.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM follows WHERE followed_id = $1),
		   (SELECT COUNT(*) FROM follows WHERE follower_id = $1)`,
		userID).Scan(&followers, &following)
	return followers, following, err
}

func (s *PostgresStorage) AddPost(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	slog.Debug("adding post", "author_id", post.AuthorID, "language", post.Language)
	err := s.DB.QueryRowContext(ctx,
		`WITH inserted AS (
		   INSERT INTO posts (author_id, body, language, created_at)
		   VALUES ($1, $2, $3, $4) RETURNING id, author_id
		 )
		 SELECT inserted.id, users.username FROM inserted JOIN users ON users.id = inserted.author_id`,
		post.AuthorID, post.Body, post.Language, post.CreatedAt,
	).Scan(&post.ID, &post.Author)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("author %d: %w", post.AuthorID, ErrNotFound)
	}
	return err
}

const postSelect = `SELECT p.id, p.author_id, u.username, p.body, p.language, p.created_at
FROM posts p JOIN users u ON u.id = p.author_id`

func (s *PostgresStorage) ExplorePosts(ctx context.Context, page, perPage int) (models.Page[models.Post], error) {
	return s.postPage(ctx, page, perPage, "TRUE")
}

func (s *PostgresStorage) FollowedPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	return s.postPage(ctx, page, perPage,
		`(p.author_id = $1 OR p.author_id IN (SELECT followed_id FROM follows WHERE follower_id = $1))`, userID)
}

func (s *PostgresStorage) UserPosts(ctx context.Context, userID int64, page, perPage int) (models.Page[models.Post], error) {
	return s.postPage(ctx, page, perPage, `p.author_id = $1`, userID)
}

// SearchPosts uses PostgreSQL full-text search with the "simple" configuration
// so that posts in any language are matched on their raw words.
func (s *PostgresStorage) SearchPosts(ctx context.Context, query string, page, perPage int) ([]models.Post, int, error) {
	const match = `to_tsvector('simple', p.body) @@ plainto_tsquery('simple', $1)`

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p WHERE `+match, query).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.QueryContext(ctx,
		postSelect+` WHERE `+match+`
		 ORDER BY ts_rank(to_tsvector('simple', p.body), plainto_tsquery('simple', $1)) DESC,
		          p.created_at DESC, p.id DESC
		 LIMIT $2 OFFSET $3`,
		query, perPage, models.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostgresStorage) ListCompanies(ctx context.Context, page, perPage int) (models.Page[models.Company], error) {
	page = models.NormalizePage(page)
	result := models.Page[models.Company]{Page: page, PerPage: perPage, Items: []models.Company{}}

	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&result.Total); err != nil {
		return result, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, names_one, names_two, names_three, branches FROM companies
		 ORDER BY id ASC LIMIT $1 OFFSET $2`,
		perPage, models.Offset(page, perPage))
	if err != nil {
		return result, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.NamesOne, &c.NamesTwo, &c.NamesThree, &c.Branches); err != nil {
			return result, err
		}
		result.Items = append(result.Items, c)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, names_one, names_two, names_three, branches FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.NamesOne, &c.NamesTwo, &c.NamesThree, &c.Branches)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStorage) AddCompany(ctx context.Context, company *models.Company) error {
	return s.DB.QueryRowContext(ctx,
		`INSERT INTO companies (names_one, names_two, names_three, branches)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		company.NamesOne, company.NamesTwo, company.NamesThree, company.Branches,
	).Scan(&company.ID)
}

func (s *PostgresStorage) UpdateCompany(ctx context.Context, company *models.Company) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE companies SET names_one = $1, names_two = $2, names_three = $3, branches = $4
		 WHERE id = $5`,
		company.NamesOne, company.NamesTwo, company.NamesThree, company.Branches, company.ID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("company %d", company.ID))
}

func (s *PostgresStorage) DeleteCompany(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("company %d", id))
}

// postPage runs a filtered, newest-first page query. Placeholders in filter
// are numbered from $1 and bound to args.
func (s *PostgresStorage) postPage(ctx context.Context, page, perPage int, filter string, args ...any) (models.Page[models.Post], error) {
	page = models.NormalizePage(page)
	result := models.Page[models.Post]{Page: page, PerPage: perPage, Items: []models.Post{}}

	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p WHERE `+filter, args...).Scan(&result.Total); err != nil {
		return result, err
	}

	n := len(args)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		postSelect, filter, n+1, n+2)
	rows, err := s.DB.QueryContext(ctx, query, append(args, perPage, models.Offset(page, perPage))...)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return result, err
	}
	result.Items = posts
	return result, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Body, &p.Language, &p.CreatedAt); err != nil {
			slog.Debug("scan post row failed", "error", err)
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanUser(row *sql.Row, what string) (*models.User, error) {
	var u models.User
	var lastSeen sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AboutMe, &lastSeen, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.LastSeen = lastSeen.Time
	return &u, nil
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// userConstraintError maps unique violations on users to sentinel errors.
func userConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	}
	return err
}
