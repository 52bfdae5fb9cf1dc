package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const refreshCookiePath = "/api/refresh/token"

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteNoneMode,
		Path:     refreshCookiePath,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if result.TwoFactorRequired {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"message":       "Two-factor authentication required",
				"session_token": result.SessionToken,
			},
		})
		return
	}

	setRefreshCookie(w, result.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": result.AccessToken,
		},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie("refresh_token"); err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			respondJSON(w, http.StatusOK, "Logout successful")
			return
		}
		respondError(w, http.StatusBadRequest, "Error during logout request.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteNoneMode,
	})

	respondJSON(w, http.StatusOK, "Logout successful")
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.SessionToken == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(req.SessionToken, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidSessionToken) || errors.Is(err, ErrExpiredSessionToken) || errors.Is(err, ErrInvalid2FACode) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		return
	}

	setRefreshCookie(w, result.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"user_id":      result.User.ID,
			"access_token": result.AccessToken,
		},
	})
}

func (h *Handler) HandleSetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	otpURI, secret, err := h.authService.SetupTwoFactor(userID)
	if err != nil {
		if errors.Is(err, ErrUser2FAAlreadyEnabled) {
			respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not set up two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
			"secret":  secret,
		},
	})
}

func (h *Handler) HandleConfirmTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.authService.ConfirmTwoFactor(userID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		case errors.Is(err, ErrUser2FANotEnabled):
			respondError(w, http.StatusBadRequest, "Two-factor setup has not been initiated")
		default:
			respondError(w, http.StatusInternalServerError, "Could not confirm two-factor authentication")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication enabled successfully",
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.authService.DisableTwoFactor(userID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
		case errors.Is(err, ErrUser2FANotEnabled):
			respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		default:
			respondError(w, http.StatusInternalServerError, "Could not disable two-factor authentication")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication disabled successfully",
	})
}

func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": accessToken,
		},
	})
}
