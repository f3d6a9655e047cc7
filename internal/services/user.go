package service

import (
	"context"
	"errors"

	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	"github.com/aaravmahajanofficial/users-api/internal/metrics"
	models "github.com/aaravmahajanofficial/users-api/internal/models"
	repository "github.com/aaravmahajanofficial/users-api/internal/repositories"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aaravmahajanofficial/users-api/internal/services"

type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUser) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.CreateUser) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo   repository.UserRepository
	tracer trace.Tracer
	newID  func() string
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{
		repo:   repo,
		tracer: otel.Tracer(tracerName),
		newID:  uuid.NewString,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {

	ctx, span := s.tracer.Start(ctx, "UserService.ListUsers")
	defer span.End()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, s.fail(span, "list", err, "Failed to list users")
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	metrics.RecordUserOperation("list", metrics.ResultSuccess)

	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {

	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByID", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	user, err := s.repo.GetUserById(ctx, id)
	if err != nil {
		return nil, s.fail(span, "get", err, "Failed to fetch user")
	}

	metrics.RecordUserOperation("get", metrics.ResultSuccess)

	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUser) (*models.User, error) {

	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser")
	defer span.End()

	// any id sent by the client is ignored
	user := models.NewUser(s.newID(), req)
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, s.fail(span, "create", err, "Failed to create user")
	}

	metrics.RecordUserOperation("create", metrics.ResultSuccess)
	s.refreshCount(ctx)

	return user, nil
}

// UpdateUser replaces every mutable field of the user, the id stays.
func (s *userService) UpdateUser(ctx context.Context, id string, req *models.CreateUser) (*models.User, error) {

	ctx, span := s.tracer.Start(ctx, "UserService.UpdateUser", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	user := models.NewUser(id, req)

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, s.fail(span, "update", err, "Failed to update user")
	}

	metrics.RecordUserOperation("update", metrics.ResultSuccess)

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {

	ctx, span := s.tracer.Start(ctx, "UserService.DeleteUser", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return s.fail(span, "delete", err, "Failed to delete user")
	}

	metrics.RecordUserOperation("delete", metrics.ResultSuccess)
	s.refreshCount(ctx)

	return nil
}

// fail maps repository errors onto AppErrors and records the outcome.
func (s *userService) fail(span trace.Span, operation string, err error, message string) error {

	span.RecordError(err)

	if errors.Is(err, repository.ErrUserNotFound) {
		span.SetStatus(codes.Error, "user not found")
		metrics.RecordUserOperation(operation, metrics.ResultNotFound)
		return appErrors.NotFoundError("User not found").WithError(err)
	}

	span.SetStatus(codes.Error, err.Error())
	metrics.RecordUserOperation(operation, metrics.ResultError)

	return appErrors.InternalError(message).WithError(err)
}

func (s *userService) refreshCount(ctx context.Context) {
	if count, err := s.repo.CountUsers(ctx); err == nil {
		metrics.SetUsersStored(count)
	}
}
