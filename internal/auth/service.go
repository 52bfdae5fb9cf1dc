package auth

import (
	"errors"
	"net/http"

	"github.com/finanzasimple/api/internal/user"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInternalError         = errors.New("internal Server Error")
	ErrInvalid2FACode        = errors.New("2fa code is invalid")
	ErrUser2FANotEnabled     = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled = errors.New("two factor auth already enabled")
)

// LoginResult is either a finished login (tokens set) or a pending one
// (SessionToken set, waiting for the 2FA code).
type LoginResult struct {
	User              *user.User
	AccessToken       string
	RefreshToken      string
	SessionToken      string
	TwoFactorRequired bool
}

type Service interface {
	Login(email, password string) (*LoginResult, error)
	VerifyTwoFactor(sessionToken, code string) (*LoginResult, error)
	RefreshAccessToken(userID string) (string, error)
	SetupTwoFactor(userID string) (string, string, error)
	ConfirmTwoFactor(userID, code string) error
	DisableTwoFactor(userID, code string) error
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  Authenticator
}

func NewAuthService(userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator Authenticator) Service {
	return &service{
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
	}
}

func (s *service) issueTokens(u *user.User) (*LoginResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(u.ID, defaultJWTDuration)
	if err != nil {
		return nil, ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(u.ID, u.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		return nil, ErrInternalError
	}
	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) Login(email, password string) (*LoginResult, error) {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternalError
	}

	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, ErrInternalError
		}
		return &LoginResult{
			User:              existingUser,
			SessionToken:      sessionToken,
			TwoFactorRequired: true,
		}, nil
	}

	return s.issueTokens(existingUser)
}

func (s *service) VerifyTwoFactor(sessionToken, code string) (*LoginResult, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return nil, ErrUser2FANotEnabled
	}
	if !s.authenticator.VerifyCode(existingUser.TwoFactorSecret, code) {
		return nil, ErrInvalid2FACode
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	return s.issueTokens(existingUser)
}

func (s *service) RefreshAccessToken(userID string) (string, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(userID, defaultJWTDuration)
	if err != nil {
		return "", ErrInternalError
	}
	return accessToken, nil
}

// SetupTwoFactor generates a fresh TOTP secret. The secret only becomes
// active after ConfirmTwoFactor sees one valid code for it.
func (s *service) SetupTwoFactor(userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return "", "", ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return "", "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", "", err
	}
	if err := s.userService.SetTwoFactor(userID, false, secret); err != nil {
		return "", "", ErrInternalError
	}
	return otpURI, secret, nil
}

func (s *service) ConfirmTwoFactor(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}
	if existingUser.TwoFactorSecret == "" {
		return ErrUser2FANotEnabled
	}
	if !s.authenticator.VerifyCode(existingUser.TwoFactorSecret, code) {
		return ErrInvalid2FACode
	}
	return s.userService.SetTwoFactor(userID, true, existingUser.TwoFactorSecret)
}

func (s *service) DisableTwoFactor(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}
	if !s.authenticator.VerifyCode(existingUser.TwoFactorSecret, code) {
		return ErrInvalid2FACode
	}
	if err := s.userService.SetTwoFactor(userID, false, ""); err != nil {
		return ErrInternalError
	}
	// Rotating the hash token revokes outstanding refresh tokens issued
	// while 2FA protected the account.
	if _, err := s.userService.UpdateHashToken(userID); err != nil {
		return ErrInternalError
	}
	return nil
}
