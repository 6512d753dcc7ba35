package httpserver

import (
	"encoding/json"
	"net/http"

	"farmdirect/internal/service"
)

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	UserID  string `json:"user_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary      Register a new user
// @Description  Create a farmer or buyer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body registerRequest true "Registration input"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /auth/register [post]
func handleRegister(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		user, err := authSvc.Register(r.Context(), service.RegisterInput{
			FullName: req.FullName,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, registerResponse{
			Message: "User registered successfully",
			Email:   user.Email,
			UserID:  user.UUID,
		})
	}
}

// @Summary      Login
// @Description  Exchange email and password for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body loginRequest true "Login input"
// @Success      200  {object}  service.TokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func handleLogin(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		resp, err := authSvc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
