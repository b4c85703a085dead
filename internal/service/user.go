package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/tokens"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type UserRepo interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

type UserService struct {
	Repo   UserRepo
	Tokens *tokens.Service
	Events events.Publisher
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

var dummyPasswordHash = sync.OnceValue(func() string {
	h, err := hash.HashPassword("not-a-real-password")
	if err != nil {
		panic(err)
	}
	return h
})

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func canModify(actor tokens.Identity, targetID uint) bool {
	return actor.Role == models.RoleAdmin || actor.ID == targetID
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Me(ctx context.Context, actor tokens.Identity) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, actor.ID)
		}
		return nil, fmt.Errorf("get user %d: %w", actor.ID, err)
	}
	return user, nil
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	name, surname := strings.TrimSpace(req.Name), strings.TrimSpace(req.Surname)
	if name == "" || surname == "" {
		return nil, ErrBlankName
	}

	email := normalizeEmail(req.Email)
	taken, err := s.Repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: pwHash,
		Age:          *req.Age,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("user_registered", "user_id", user.ID)
	publish(ctx, s.Events, events.TopicUsers, userKey(user.ID), events.UserEvent{
		Type:   events.UserRegistered,
		UserID: user.ID,
		Email:  user.Email,
	})
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repo.IsNotFound(err) {
			// unknown emails cost one bcrypt compare, like a wrong password
			hash.CheckPassword(dummyPasswordHash(), req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(tokens.Identity{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *UserService) Update(ctx context.Context, actor tokens.Identity, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if !canModify(actor, id) {
		return nil, fmt.Errorf("%w: user %d cannot modify user %d", ErrForbidden, actor.ID, id)
	}
	if req.Role != nil && actor.Role != models.RoleAdmin {
		return nil, ErrRoleChange
	}
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" ||
		req.Surname != nil && strings.TrimSpace(*req.Surname) == "" {
		return nil, ErrBlankName
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be blank", ErrValidation)
		}
		if email != user.Email {
			taken, err := s.Repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		user.Surname = strings.TrimSpace(*req.Surname)
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("save user %d: %w", id, err)
	}

	publish(ctx, s.Events, events.TopicUsers, userKey(user.ID), events.UserEvent{
		Type:   events.UserUpdated,
		UserID: user.ID,
		Email:  user.Email,
	})
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor tokens.Identity, id uint) error {
	if !canModify(actor, id) {
		return fmt.Errorf("%w: user %d cannot delete user %d", ErrForbidden, actor.ID, id)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	publish(ctx, s.Events, events.TopicUsers, userKey(id), events.UserEvent{
		Type:   events.UserDeleted,
		UserID: id,
	})
	return nil
}

func userKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
