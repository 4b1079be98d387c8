package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefrontlabs/storefront/internal/errors"
	"github.com/storefrontlabs/storefront/internal/models"
	repository "github.com/storefrontlabs/storefront/internal/repositories"
	"github.com/storefrontlabs/storefront/internal/repositories/redis"
)

type UserService interface {
	Register(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.SigninRequest) (*models.SigninResponse, error)
}

type userService struct {
	repo     repository.UserRepository
	limiter  redis.RateLimiter
	jwtKey   []byte
	tokenTTL time.Duration
}

func NewUserService(repo repository.UserRepository, limiter redis.RateLimiter, jwtKey []byte, tokenTTL time.Duration) UserService {
	return &userService{
		repo:     repo,
		limiter:  limiter,
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {

	// Emails are case-normalized at the boundary so A@x.com and a@x.com
	// resolve to the same identity.
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, _ := s.repo.GetUserByEmail(ctx, email)
	if existingUser != nil {
		return nil, errors.DuplicateEntryError("User already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Concurrent signup can race past the precheck into the
		// unique constraint.
		if err == repository.ErrDuplicateEmail {
			return nil, errors.DuplicateEntryError("User already exists.").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.SigninRequest) (*models.SigninResponse, error) {

	allowed, remaining, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.SigninResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return &models.SigninResponse{
			Success:        false,
			Message:        "Invalid email or password.",
			RemainingTries: remaining,
		}, nil
	}

	claims := &models.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	public := user.Public()

	return &models.SigninResponse{
		Success: true,
		Message: "Signin successful",
		Token:   tokenString,
		User:    &public,
	}, nil
}
