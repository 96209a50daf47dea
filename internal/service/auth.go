package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("nom d'utilisateur ou mot de passe incorrect")
	ErrUserExists         = errors.New("ce nom d'utilisateur existe déjà")
	ErrInvalidCode        = errors.New("code d'inscription invalide ou déjà utilisé")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("le mot de passe doit comporter au moins 6 caractères")
	ErrInvalidUsername    = errors.New("le nom d'utilisateur doit comporter au moins 3 caractères")
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 30 * 24 * time.Hour
)

// Identity is what a validated access token resolves to.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

type AuthService struct {
	userRepo    *repository.UserRepository
	codeRepo    *repository.CodeRepository
	sessionRepo *repository.SessionRepository
	jwtSecret   []byte
}

func NewAuthService(userRepo *repository.UserRepository, codeRepo *repository.CodeRepository, sessionRepo *repository.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		codeRepo:    codeRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Register creates an account from a one-time invite code. The consumed
// code decides the granted role.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)

	if len(req.Username) < 3 || len(req.Username) > 32 {
		return nil, ErrInvalidUsername
	}
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}

	role, err := s.codeRepo.Consume(ctx, req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeInvalid) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("consume invite code: %w", err)
	}
	if !model.ValidRole(role) {
		role = model.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Username, string(hash), role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	userID, err := s.sessionRepo.ValidateRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Rotation: the presented token is burned either way.
	_ = s.sessionRepo.RevokeRefreshToken(ctx, tokenHash)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessionRepo.RevokeRefreshToken(ctx, hashToken(refreshToken))
}

// ValidateAccessToken parses and verifies an access token, returning the
// caller's identity. The role claim is what the privilege gate trusts.
func (s *AuthService) ValidateAccessToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if !model.ValidRole(role) {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, Username: username, Role: role}, nil
}

// GenerateInviteCode mints a one-time registration code granting role.
func (s *AuthService) GenerateInviteCode(ctx context.Context, role string, createdBy *int64) (*model.InviteCode, error) {
	code, err := s.codeRepo.Create(ctx, uuid.NewString(), role, createdBy)
	if err != nil {
		return nil, fmt.Errorf("store invite code: %w", err)
	}
	return code, nil
}

// BootstrapCreatorCode issues a creator invite code when the users table is
// empty, so a fresh deployment has a way in. The code is logged once.
func (s *AuthService) BootstrapCreatorCode(ctx context.Context) error {
	total, err := s.userRepo.CountTotal(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	code, err := s.GenerateInviteCode(ctx, model.RoleCreator, nil)
	if err != nil {
		return err
	}
	log.Printf("[auth] no users yet; creator invite code: %s", code.Code)
	return nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	now := time.Now()
	accessClaims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenDuration).Unix(),
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessStr, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	refreshStr := hex.EncodeToString(refreshBytes)

	expiresAt := now.Add(refreshTokenDuration)
	if err := s.sessionRepo.StoreRefreshToken(ctx, user.ID, hashToken(refreshStr), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessStr,
		RefreshToken: refreshStr,
	}, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
