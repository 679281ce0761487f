package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/repository"
	"github.com/dquelhas/taskquest/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

const sessionTTL = 24 * time.Hour

// UserService is the auth gate: it issues and resolves caller identity.
// The task core only ever receives the resolved owner id from here.
type UserService struct {
	Repo   repository.UserRepository
	Tasks  repository.TaskRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, tasks repository.TaskRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Tasks: tasks, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func (s *UserService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration: the email UNIQUE
		// constraint fires even though the pre-check saw no row.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Authenticate validates email/password without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.PasswordMatches(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout destroys the user's session.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// ResolveToken maps an access token to a user id, requiring a live session
// whose sid matches the token. Returns false for any invalid or stale token.
func (s *UserService) ResolveToken(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return "", false
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return "", false
		}
	}
	return claims.UserID, true
}

type UserStatus struct {
	Email  string
	Points int
}

// Status returns the user's email and their completed-only point total.
// This aggregate intentionally differs from the task listing total, which
// also counts expiration penalties; both semantics are preserved from the
// product as shipped.
func (s *UserService) Status(ctx context.Context, userID string) (*UserStatus, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	points, err := s.Tasks.SumCompletedPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserStatus{Email: u.Email, Points: points}, nil
}
