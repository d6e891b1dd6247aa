package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/sender"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ThresholdProvider yields the effective dashboard thresholds.
type ThresholdProvider interface {
	Thresholds(ctx context.Context) models.Thresholds
}

// UserService is the admin view over customer accounts.
type UserService interface {
	List(ctx context.Context, params models.UserListParams) (*UserListResult, *apperrors.Error)
	Get(ctx context.Context, id string) (*models.User, *apperrors.Error)
	Delete(ctx context.Context, id string) *apperrors.Error
	UpdateStatus(ctx context.Context, id, status string) (*models.User, *apperrors.Error)
}

type userServiceImpl struct {
	users      repository.UserRepo
	thresholds ThresholdProvider
	mailer     sender.Mailer
	logger     *zap.Logger
	now        func() time.Time
}

func NewUserService(users repository.UserRepo, thresholds ThresholdProvider, mailer sender.Mailer, logger *zap.Logger) UserService {
	return &userServiceImpl{
		users:      users,
		thresholds: thresholds,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *userServiceImpl) List(ctx context.Context, params models.UserListParams) (*UserListResult, *apperrors.Error) {
	q := repository.UserQuery{Name: params.Name, ExcludeRole: models.RoleAdmin}
	switch params.Filter {
	case "active":
		q.Status = models.StatusActive
	case "inactive":
		q.Status = models.StatusInactive
	case "high-value":
		minSpent := s.thresholds.Thresholds(ctx).HighValue
		q.MinSpent = &minSpent
	case "new":
		since := startOfLastMonth(s.now())
		q.CreatedAfter = &since
	}

	limit, skip := params.Limit, params.Skip
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if skip < 0 {
		skip = 0
	}

	users, total, err := s.users.List(ctx, q, limit, skip)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, internal(err)
	}
	return &UserListResult{Users: users, Total: total}, nil
}

func (s *userServiceImpl) Get(ctx context.Context, id string) (*models.User, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, apperrors.BadRequest("User not found!")
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.BadRequest("User not found!")
	}
	if err != nil {
		return nil, internal(err)
	}
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, id string) *apperrors.Error {
	oid, ok := parseID(id)
	if !ok {
		return apperrors.BadRequest("User not found!")
	}
	deleted, err := s.users.Delete(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return internal(err)
	}
	if !deleted {
		return apperrors.BadRequest("User not found!")
	}
	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}

func (s *userServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*models.User, *apperrors.Error) {
	if status != models.StatusActive && status != models.StatusInactive {
		return nil, apperrors.BadRequest("Invalid status")
	}
	oid, ok := parseID(id)
	if !ok {
		return nil, apperrors.BadRequest("User not found!")
	}

	matched, err := s.users.Update(ctx, oid, bson.M{"status": status})
	if err != nil {
		return nil, internal(err)
	}
	if !matched {
		return nil, apperrors.BadRequest("User not found!")
	}

	user, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	subject, template := "Account has been activated", sender.TemplateActivateAccount
	if !user.IsActive() {
		subject, template = "Account inactivate", sender.TemplateInactivateAccount
	}
	if err := s.mailer.Send(ctx, user.Email, subject, template, nil); err != nil {
		s.logger.Error("Failed to send status email", zap.String("user_id", id), zap.Error(err))
		return nil, internal(err)
	}

	s.logger.Info("User status updated", zap.String("user_id", id), zap.String("status", status))
	return user, nil
}
