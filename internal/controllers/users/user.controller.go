package userController

import (
	"context"
	"errors"
	"server/internal/database"
	"server/internal/logger"
	. "server/internal/models"
	"server/internal/repositories"
	"server/internal/services"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const SESSION_EXPIRY = 24 * time.Hour

type UserController struct {
	userRepo repositories.UserRepository
	db       database.DB
	log      logger.Logger
}

func New(userRepo repositories.UserRepository, db database.DB) *UserController {
	return &UserController{
		userRepo: userRepo,
		db:       db,
		log:      logger.New("UserController"),
	}
}

// Register creates a company or employee account. Employees must name
// the company that employs them; that name is how the aggregator finds
// a company's team.
func (uc *UserController) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	log := uc.log.Function("Register")

	if req.Role != RoleCompany && req.Role != RoleEmployee {
		return nil, services.NewInvalidError("role must be company or employee")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, services.NewInvalidError("name and email are required")
	}
	if len(req.Password) < 6 {
		return nil, services.NewInvalidError("password must be at least 6 characters")
	}
	if req.Role == RoleEmployee && strings.TrimSpace(req.CompanyName) == "" {
		return nil, services.NewInvalidError("employees must specify their company")
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, services.NewConflictError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{
		Role:     req.Role,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hash),
	}
	if req.Role == RoleEmployee {
		companyName := strings.TrimSpace(req.CompanyName)
		user.CompanyName = &companyName
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered", "userID", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies the password and issues an opaque session token kept
// in the session cache.
func (uc *UserController) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	log := uc.log.Function("Login")

	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, services.NewUnauthorizedError("invalid email or password")
	}

	token := uuid.NewString()
	if err := database.NewCacheBuilder(uc.db.Cache.Session, token).
		WithStruct(user.ID).
		WithTTL(SESSION_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return nil, log.Err("failed to store session", err, "userID", user.ID)
	}

	log.Info("user logged in", "userID", user.ID)
	return &LoginResponse{Token: token, User: *user}, nil
}

// ListEmployees returns the requesting company's roster, answered or
// not.
func (uc *UserController) ListEmployees(ctx context.Context, requester User) ([]User, error) {
	if !requester.IsCompany() {
		return nil, services.NewForbiddenError("only companies can view their employees")
	}
	return uc.userRepo.GetEmployeesByCompany(ctx, requester.Name)
}

// Logout drops the session token.
func (uc *UserController) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return database.NewCacheBuilder(uc.db.Cache.Session, token).WithContext(ctx).Delete()
}
