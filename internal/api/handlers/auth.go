package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// AuthHandler handles sign-up and sign-in.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp handles POST requests to create an account.
//
// Endpoint: POST /api/auth/signup
// Request Body: SignUpRequest (email, password, firstName, lastName)
// Response: 201 Created with model.Session
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the email address is already registered
// Error: 500 Internal Server Error if creation fails
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignUpRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSignUp(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	session, err := h.authService.SignUp(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to sign up")
		return
	}

	response.RespondJSON(w, http.StatusCreated, session)
}

// SignIn handles POST requests to start a session.
//
// Endpoint: POST /api/auth/signin
// Request Body: SignInRequest (email, password)
// Response: 200 OK with model.Session
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 401 Unauthorized if the email or password is wrong
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignInRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSignIn(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	session, err := h.authService.SignIn(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to sign in")
		return
	}

	response.RespondJSON(w, http.StatusOK, session)
}
