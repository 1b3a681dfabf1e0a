package handler

import (
	"net/http"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public view of an account. The password hash never
// leaves the server.
type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// Register handles POST /users/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	u, err := s.accounts.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		Success: true,
		Message: "User registered successfully",
		User:    userToResponse(u),
	})
}

// Login handles POST /users/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	session, err := s.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      userToResponse(session.User),
	})
}

func userToResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
