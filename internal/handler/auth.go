package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ifuapp/ifu/internal/config"
	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type authHandler struct {
	authService       *service.AuthService
	userService       *service.UserService
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		userService: userService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,notblank"`
}

type passwordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ZipCode  string `json:"zip_code"`
	Gender   string `json:"gender"`
	Timezone string `json:"timezone"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  *model.Account `json:"user"`
}

func (h *authHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.authService.CheckEmail(req.Email)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]bool{"exists": true})
}

func (h *authHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.authService.RequestOTP(r.Context(), req.Email)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "OTP sent to email")
}

func (h *authHandler) RequestPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.authService.RequestPasswordResetOTP(r.Context(), req.Email)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Password reset OTP sent")
}

func (h *authHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.authService.VerifyOTP(req.Email, req.Code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "OTP verified")
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.authService.ResetPassword(req.Email, req.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Password reset successful")
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	account, err := h.authService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		ZipCode:  req.ZipCode,
		Gender:   req.Gender,
		Timezone: req.Timezone,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, account.User)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *authHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	account, err := h.userService.Account(user.ID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, status, authResponse{Token: token, User: account})
}

// GoogleAuth redirects user to Google OAuth consent screen
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuthConfig.ClientID == "" || h.googleOAuthConfig.ClientSecret == "" {
		render.ErrorMessage(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	// Generate secure state token for CSRF protection
	state, err := generateOAuthState()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback exchanges the code, signs the user in and returns a token.
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		render.ErrorMessage(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		render.ErrorMessage(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		render.ErrorMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	client := h.googleOAuthConfig.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		render.ErrorMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		render.ErrorMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	user, err := h.authService.AuthenticateOAuth(userInfo.Email, userInfo.Name, "google")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func generateOAuthState() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
