package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/platform/logger"
	"github.com/phrazzld/bmi-api/internal/redact"
	"github.com/phrazzld/bmi-api/internal/store"
)

// ProfileUpdate lists the user fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	Email    *string
	Password *string
}

// UserService provides account operations.
type UserService interface {
	// CreateUser registers a new account.
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers returns every account.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile changes the user's email and/or password and returns the
	// stored result.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a UserService. Writes run in transactions on db.
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		log.Debug("rejected user registration", "error", err)
		return nil, NewUserServiceError("create", "invalid user", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		} else {
			log.Error("failed to save user", "error", redact.Error(err))
		}
		return nil, NewUserServiceError("create", "failed to save user", err)
	}

	log.Info("user created", "user_id", user.ID)
	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logLookupFailure(ctx, err, "user_id", userID)
		return nil, NewUserServiceError("get", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		s.logLookupFailure(ctx, err)
		return nil, NewUserServiceError("get_by_email", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", redact.Error(err))
		return nil, NewUserServiceError("list", "failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update ProfileUpdate,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Email != nil {
		if err := domain.ValidateEmail(domain.NormalizeEmail(*update.Email)); err != nil {
			return nil, NewUserServiceError("update", "invalid email", err)
		}
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, NewUserServiceError("update", "invalid password", err)
		}
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if update.Email != nil {
			user.Email = domain.NormalizeEmail(*update.Email)
		}
		if update.Password != nil {
			user.Password = *update.Password
		}
		if err := txStore.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			log.Debug("profile update for unknown user", "user_id", userID)
		case errors.Is(err, store.ErrEmailExists):
			log.Debug("profile update to an existing email", "user_id", userID)
		default:
			log.Error("failed to update user", "user_id", userID, "error", redact.Error(err))
		}
		return nil, NewUserServiceError("update", "failed to update user", err)
	}

	updated.Password = ""
	log.Info("user profile updated",
		"user_id", userID,
		"email_changed", update.Email != nil,
		"password_changed", update.Password != nil)
	return updated, nil
}

func (s *userServiceImpl) logLookupFailure(ctx context.Context, err error, attrs ...any) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug("user not found", attrs...)
		return
	}
	log.Error("failed to retrieve user", append(attrs, "error", redact.Error(err))...)
}
