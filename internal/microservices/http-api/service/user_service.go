package service

import (
	"context"
	"log/slog"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// ReservedUsername cannot be registered because /users/me/ shadows it
const ReservedUsername = "me"

type UserService interface {
	// CreateUser returns the existing user when email and username already
	// match, and a ConflictError when either is bound to a different account.
	CreateUser(ctx context.Context, email, username string) (*models.User, error)
	Provision(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	// SetRole is the only way to change a role and requires admin authority.
	SetRole(ctx context.Context, actor *models.User, username, role string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo, logger: slog.Default()}
}

// clashFunc builds the error for an email or username bound elsewhere.
// Signup reports it as a validation failure, provisioning as a conflict.
type clashFunc func(code, field string) *apperror.Error

func conflictClash(code, field string) *apperror.Error {
	return apperror.Conflict(code).WithField(field)
}

func validationClash(code, field string) *apperror.Error {
	return apperror.Validation(code, field)
}

// getOrCreateUser resolves (email, username) to exactly one account or fails.
func getOrCreateUser(ctx context.Context, repo repository.UserRepository, email, username string, clash clashFunc) (*models.User, bool, error) {
	if username == ReservedUsername {
		return nil, false, apperror.Validation(apperror.CodeReservedUsername, "username", ReservedUsername)
	}

	existing, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Username != username {
			return nil, false, clash(apperror.CodeEmailTaken, "email")
		}
		return existing, false, nil
	case !repository.IsNotFound(err):
		return nil, false, apperror.Internal(err)
	}

	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return nil, false, clash(apperror.CodeUsernameTaken, "username")
	} else if !repository.IsNotFound(err) {
		return nil, false, apperror.Internal(err)
	}

	user := &models.User{Email: email, Username: username, Role: models.RoleUser}
	if err := repo.Create(ctx, user); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, false, apperror.Internal(err)
		}
		// A concurrent request won the insert; it may have created this very account.
		if winner, findErr := repo.FindByEmail(ctx, email); findErr == nil && winner.Username == username {
			return winner, false, nil
		}
		return nil, false, clash(apperror.CodeEmailTaken, "email")
	}
	return user, true, nil
}

func (s *userService) CreateUser(ctx context.Context, email, username string) (*models.User, error) {
	user, created, err := getOrCreateUser(ctx, s.userRepo, email, username, conflictClash)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("user_created", "user_id", user.ID, "username", user.Username)
	}
	return user, nil
}

// Provision is the admin create: CreateUser plus profile fields and an optional role
func (s *userService) Provision(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user, created, err := getOrCreateUser(ctx, s.userRepo, req.Email, req.Username, conflictClash)
	if err != nil {
		return nil, err
	}

	// an exact match returns the account untouched
	if created {
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Bio = req.Bio
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperror.Internal(err)
		}
		s.logger.Info("user_created", "user_id", user.ID, "username", user.Username, "actor_id", actor.ID)
	}

	if created && req.Role != "" && req.Role != user.Role {
		if user, err = s.SetRole(ctx, actor, user.Username, req.Role); err != nil {
			return nil, err
		}
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(data, int(total), page, pageSize), nil
}

func (s *userService) find(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storageError(err, apperror.CodeUserNotFound)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, actor, user, req)
}

func (s *userService) UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, apperror.Authorization(apperror.CodePermissionDenied)
	}
	// reload so the update starts from the stored row, not the token-time snapshot
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storageError(err, apperror.CodeUserNotFound)
	}
	return s.applyUpdate(ctx, actor, user, req)
}

func (s *userService) applyUpdate(ctx context.Context, actor, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Role != nil && *req.Role != user.Role && !models.IsAdmin(actor) {
		return nil, apperror.Authorization(apperror.CodePermissionDenied)
	}
	if err := s.checkUnique(ctx, user, req); err != nil {
		return nil, err
	}

	req.ApplyProfile(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict(apperror.CodeUsernameTaken).WithField("username")
		}
		return nil, apperror.Internal(err)
	}

	if req.Role != nil && *req.Role != user.Role {
		updated, err := s.SetRole(ctx, actor, user.Username, *req.Role)
		if err != nil {
			return nil, err
		}
		user = updated
	}
	return dto.FromModelToUserResponse(user), nil
}

// checkUnique rejects a rename onto a username or email held by someone else
func (s *userService) checkUnique(ctx context.Context, user *models.User, req dto.UpdateUserRequest) error {
	if req.Username != nil && *req.Username != user.Username {
		if *req.Username == ReservedUsername {
			return apperror.Validation(apperror.CodeReservedUsername, "username", ReservedUsername)
		}
		if _, err := s.userRepo.FindByUsername(ctx, *req.Username); err == nil {
			return apperror.Conflict(apperror.CodeUsernameTaken).WithField("username")
		} else if !repository.IsNotFound(err) {
			return apperror.Internal(err)
		}
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, *req.Email); err == nil {
			return apperror.Conflict(apperror.CodeEmailTaken).WithField("email")
		} else if !repository.IsNotFound(err) {
			return apperror.Internal(err)
		}
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.find(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return storageError(err, apperror.CodeUserNotFound)
	}
	s.logger.Info("user_deleted", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *userService) SetRole(ctx context.Context, actor *models.User, username, role string) (*models.User, error) {
	if !models.IsAdmin(actor) {
		return nil, apperror.Authorization(apperror.CodePermissionDenied)
	}
	if !models.ValidRole(role) {
		return nil, apperror.Validation(apperror.CodeInvalidRole, "role")
	}

	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	previous := user.Role
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	s.logger.Info("user_role_changed", "user_id", user.ID, "from", previous, "to", role, "actor_id", actor.ID)
	return user, nil
}
