package api

import (
	"encoding/json"
	"errors"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/lib/jwt"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
)

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type ProfileResponse struct {
	User models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(req AuthRequest) string {
	if req.Email == "" || req.Password == "" {
		return "Email and password are required"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return "Please enter a valid email"
	}
	if len(req.Password) < minPasswordLength {
		return "Password must be at least 6 characters long"
	}
	if len(req.Password) > maxPasswordBytes {
		return "Password must be at most 72 bytes long"
	}
	return ""
}

func (s *APIServer) signupHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Email = normalizeEmail(req.Email)

		if msg := validateSignup(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		user, err := s.registerNewUser(r, req.Email, []byte(req.Password))
		if err != nil {
			if errors.Is(err, storage.ErrUserExists) {
				writeError(w, http.StatusConflict, "User with this email already exists")
				return
			}
			s.fail(w, r, err, "")
			return
		}

		token, err := jwt.NewToken(user, string(s.jwtSecret), s.config.TokenTTL)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{
			Message: "User created successfully",
			Token:   token,
			User:    user,
		})
	}
}

func (s *APIServer) registerNewUser(r *http.Request, email string, password []byte) (models.User, error) {
	s.logger.Info("Register new user", slog.String("email", email))

	passHash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(passHash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.storage.SaveUser(r.Context(), user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *APIServer) loginHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Email = normalizeEmail(req.Email)

		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := s.storage.UserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			s.fail(w, r, err, "")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := jwt.NewToken(user, string(s.jwtSecret), s.config.TokenTTL)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{
			Message: "Login successful",
			Token:   token,
			User:    user,
		})
	}
}

func (s *APIServer) profileHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		user, err := s.storage.UserByID(r.Context(), claims.UserID)
		if err != nil {
			s.fail(w, r, err, "User not found")
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{User: user})
	}
}
