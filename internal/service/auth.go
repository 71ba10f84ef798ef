package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/validation"
)

var (
	ErrInvalidCredentials = apperr.Validation("invalid email or password")
	ErrNoPassword         = apperr.Validation("this account uses Google sign-in")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	otpMin = 1000
	otpMax = 9999
)

type AuthService struct {
	db                *sqlx.DB
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	codeRepository    repository.VerificationCodeRepository
	emailService      *EmailService
	clock             clock.Clock
	jwtSecret         string
	jwtExpiry         time.Duration
	otpExpiry         time.Duration
}

func NewAuthService(
	conn *sqlx.DB,
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	codeRepository repository.VerificationCodeRepository,
	emailService *EmailService,
	clk clock.Clock,
	jwtSecret string,
	jwtExpiry time.Duration,
	otpExpiry time.Duration,
) *AuthService {
	return &AuthService{
		db:                conn,
		userRepository:    userRepository,
		profileRepository: profileRepository,
		codeRepository:    codeRepository,
		emailService:      emailService,
		clock:             clk,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
		otpExpiry:         otpExpiry,
	}
}

// SignupInput carries the fields collected by the signup form.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	ZipCode  string
	Gender   string
	Timezone string
}

// CheckEmail reports whether an account exists, as ErrUserNotFound when it
// does not.
func (s *AuthService) CheckEmail(email string) error {
	email = validation.NormalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}

	_, err = s.userRepository.ByEmail(email)
	return err
}

// RequestOTP mails a fresh signup code, replacing any earlier ones.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}

	code, err := s.issueCode(email)
	if err != nil {
		return err
	}

	err = s.emailService.SendSignupCode(ctx, email, code, s.otpMinutes())
	if err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	slog.Info("verification code sent", "email", email)
	return nil
}

// RequestPasswordResetOTP mails a reset code to an existing account.
func (s *AuthService) RequestPasswordResetOTP(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}

	_, err = s.userRepository.ByEmail(email)
	if err != nil {
		return err
	}

	code, err := s.issueCode(email)
	if err != nil {
		return err
	}

	err = s.emailService.SendPasswordResetCode(ctx, email, code, s.otpMinutes())
	if err != nil {
		return fmt.Errorf("failed to send password reset code: %w", err)
	}

	slog.Info("password reset code sent", "email", email)
	return nil
}

func (s *AuthService) issueCode(email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.clock.Now()
	err = db.WithTx(s.db, func(tx *sqlx.Tx) error {
		codes := s.codeRepository.WithTx(tx)
		err := codes.DeleteByEmail(email)
		if err != nil {
			return err
		}
		return codes.Create(&model.VerificationCode{
			ID:        uuid.NewString(),
			Email:     email,
			Code:      code,
			ExpiresAt: now.Add(s.otpExpiry),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	return code, nil
}

func (s *AuthService) otpMinutes() int {
	return int(s.otpExpiry / time.Minute)
}

// generateOTP returns a uniformly random 4-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

func (s *AuthService) VerifyOTP(email, code string) error {
	email = validation.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if code == "" {
		return repository.ErrCodeInvalid
	}

	return s.codeRepository.MarkVerified(email, code, s.clock.Now())
}

// ResetPassword sets a new password once the email has a verified code.
func (s *AuthService) ResetPassword(email, password string) error {
	email = validation.NormalizeEmail(email)

	err := validation.ValidatePassword(password)
	if err != nil {
		return err
	}

	_, err = s.codeRepository.Verified(email)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = db.WithTx(s.db, func(tx *sqlx.Tx) error {
		err := s.userRepository.WithTx(tx).UpdatePassword(user.ID, hash)
		if err != nil {
			return err
		}
		return s.codeRepository.WithTx(tx).DeleteByEmail(email)
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

// Signup creates the user and profile for a verified email.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.Account, error) {
	email := validation.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, err
	}

	_, err = s.codeRepository.Verified(email)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    &hash,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}
	profile := &model.Profile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      name,
		ZipCode:   strings.TrimSpace(in.ZipCode),
		Gender:    strings.TrimSpace(in.Gender),
		Timezone:  strings.TrimSpace(in.Timezone),
		Interests: []string{},
		Goals:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = db.WithTx(s.db, func(tx *sqlx.Tx) error {
		err := s.userRepository.WithTx(tx).Create(user)
		if err != nil {
			return err
		}
		err = s.profileRepository.WithTx(tx).Create(profile)
		if err != nil {
			return err
		}
		return s.codeRepository.WithTx(tx).DeleteByEmail(email)
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(ctx, email, name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return &model.Account{User: user, Profile: profile}, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrNoPassword
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT checks the signature and expiry and returns the user ID claim.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}

// AuthenticateOAuth signs in the account for a provider-verified email,
// creating it with an empty profile on first use.
func (s *AuthService) AuthenticateOAuth(email, name, provider string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	now := s.clock.Now()
	user = &model.User{
		ID:              uuid.NewString(),
		Email:           email,
		EmailVerifiedAt: &now, // OAuth provider has verified email
		CreatedAt:       now,
	}
	profile := &model.Profile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      strings.TrimSpace(name),
		Interests: []string{},
		Goals:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = db.WithTx(s.db, func(tx *sqlx.Tx) error {
		err := s.userRepository.WithTx(tx).Create(user)
		if err != nil {
			return err
		}
		return s.profileRepository.WithTx(tx).Create(profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}
