package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/app/services"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"golang.org/x/crypto/bcrypt"
)

// UserFlow covers operator authentication and account management
type UserFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserItem, error)
	ListUsers(ctx context.Context) (*dto.ListUsersResponse, error)
	DeactivateUser(ctx context.Context, userID uint, metadata *ClientMetadata) error
}

// UserFlowImpl implements UserFlow
type UserFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
}

func NewUserFlow(userRepo repository.UserRepository, tokenService services.TokenService) UserFlow {
	return &UserFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Login verifies operator credentials and issues an access token
func (f *UserFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	user, err := f.userRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "Invalid username or password", ErrUserNotFound)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("USER_INACTIVE", "User account is inactive", ErrUserInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INCORRECT_PASSWORD", "Invalid username or password", ErrUserNotFound)
	}

	accessToken, err := f.tokenService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate token", err)
	}

	if metadata != nil {
		log.Printf("user %s logged in (ip: %s)", user.Username, metadata.IPAddress)
	}

	return &dto.LoginResponse{
		Message:     "Login successful",
		AccessToken: accessToken,
		User:        toUserItem(user),
	}, nil
}

// CreateUser registers a new operator with a hashed password
func (f *UserFlowImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserItem, error) {
	existing, err := f.userRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, NewBusinessError("USERNAME_EXISTS", "Username is already taken", ErrUsernameExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hashed),
		Role:         req.Role,
		GroupID:      req.GroupID,
		Mobile:       req.Mobile,
		IsActive:     utils.ToPtr(true),
	}
	if err := f.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	item := toUserItem(user)
	return &item, nil
}

// ListUsers returns all operators
func (f *UserFlowImpl) ListUsers(ctx context.Context) (*dto.ListUsersResponse, error) {
	users, err := f.userRepo.ByFilter(ctx, models.UserFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]dto.UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, toUserItem(u))
	}
	return &dto.ListUsersResponse{
		Message: "Users retrieved successfully",
		Items:   items,
	}, nil
}

// DeactivateUser disables an operator account. Tokens already issued stay
// valid until they expire.
func (f *UserFlowImpl) DeactivateUser(ctx context.Context, userID uint, metadata *ClientMetadata) error {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return err
	}
	user.IsActive = utils.ToPtr(false)
	user.UpdatedAt = utils.UTCNow()
	if err := f.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

func toUserItem(u *models.User) dto.UserItem {
	return dto.UserItem{
		ID:       u.ID,
		UUID:     u.UUID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		GroupID:  u.GroupID,
		IsActive: u.IsActive,
	}
}
