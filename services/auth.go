// services/auth.go
package services

import (
	"fmt"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService covers the minimum account surface the engine needs: real
// users behind the leaderboard join and bearer-token auth on the API.
type AuthService struct {
	context.DefaultService

	jwtSvc *JWTService

	userRepo *repositories.UserRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(SqlService)
	svc.setDB(sqlSvc.Db())

	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)

	return nil
}

func (svc *AuthService) setDB(db *gorm.DB) {
	svc.userRepo = repositories.NewUserRepository(db)
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid registration request")
	}

	if _, err := svc.userRepo.GetUserByEmailOrUsername(req.Email); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("email taken"), "Email is already registered")
	}
	if _, err := svc.userRepo.GetUserByEmailOrUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("username taken"), "Username is already taken")
	}

	user, err := svc.userRepo.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create user")
	}

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid login request")
	}

	user, err := svc.userRepo.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if !user.IsActive {
		return nil, shared.NewUnauthorizedError(fmt.Errorf("account inactive"), "Account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	token, expiresAt, err := svc.jwtSvc.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	if err := svc.userRepo.UpdateLastLogin(user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

func (svc *AuthService) GetMe(userID string) (*dto.UserInfo, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "User not found")
	}

	return &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}, nil
}

// RequiredAuth verifies the bearer token and stores the user id in locals.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := svc.verifyRequest(c)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// RequireRole additionally checks the role claim.
func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := svc.verifyRequest(c)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		if userRole != role {
			return shared.ResponseForbidden(c)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

func (svc *AuthService) verifyRequest(c *fiber.Ctx) (string, string, error) {
	token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
	if err != nil {
		return "", "", err
	}

	userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
	if err != nil {
		return "", "", err
	}
	if userID == "" {
		return "", "", fmt.Errorf("invalid user id in token")
	}

	return userID, role, nil
}
