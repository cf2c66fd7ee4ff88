package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-banner-api/logger"
	"go-banner-api/model"
	"go-banner-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the fixed lifetime of an issued session token.
const TokenTTL = 1 * time.Hour

// AuthService owns credential hashing, token issuance, token verification and
// token revocation. The signing secret is injected at construction time; the
// service never reads global configuration.
type AuthService struct {
	userRepo  repository.IUserRepository
	blacklist repository.IBlacklistRepository
	secretKey []byte
}

func NewAuthService(userRepo repository.IUserRepository, blacklist repository.IBlacklistRepository, secretKey string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		blacklist: blacklist,
		secretKey: []byte(secretKey),
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken mints a signed token for the given user id. Issuance is a
// pure function of (userID, current time, secret); nothing is persisted.
func (s *AuthService) GenerateToken(userID int) (string, error) {
	now := time.Now()

	claims := &model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates a presented token and resolves its subject. The
// checks run in a fixed order, each short-circuiting:
//
//  1. presence
//  2. revocation (so a revoked but otherwise valid token is rejected uniformly)
//  3. signature and structure
//  4. expiry
//  5. subject resolution
//
// The returned user never carries the password hash.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	revoked, err := s.blacklist.Exists(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("checking token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrMalformedToken
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}

	user.Password = ""
	return user, nil
}

// RevokeToken blacklists a presented token until its own encoded expiry. The
// token is decoded but deliberately not verified: an expired or even
// unverifiable-but-decodable token may still be revoked defensively. A token
// with no decodable expiry is rejected, since nothing bounds its cleanup.
func (s *AuthService) RevokeToken(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return ErrMissingToken
	}

	claims := &model.AppClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ErrMalformedToken
	}
	if claims.ExpiresAt == nil {
		return ErrMalformedToken
	}

	if err := s.blacklist.Add(ctx, tokenString, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("adding token to blacklist: %w", err)
	}
	return nil
}

// Authorize is a pure role predicate. An empty allowed list means any
// authenticated user. A nil user is an authentication failure, distinct from
// a role mismatch.
func (s *AuthService) Authorize(user *model.User, allowedRoles ...model.Role) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if len(allowedRoles) == 0 {
		return nil
	}
	for _, role := range allowedRoles {
		if model.Role(user.Role) == role {
			return nil
		}
	}
	return ErrForbidden
}

// Register creates a new user account and logs it in immediately.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, string, error) {
	_, err := s.userRepo.GetUserByUsernameOrEmail(req.Username, req.Email)
	if err == nil {
		return nil, "", repository.ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("checking for existing user: %w", err)
	}

	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     string(role),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

// Login authenticates credentials and mints a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}
