package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"habitat/internal/auth"
	"habitat/internal/domain/users"
)

var errInvalidCredentials = errors.New("Invalid email or password")

type RegisterUserPayload struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,habitatemail,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Institution string `json:"institution" validate:"max=150"`
	Occupation  string `json:"occupation" validate:"max=100"`
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates a student account. Emails listed in ADMIN_EMAILS become admins.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"User details"
//	@Success		201		{object}	users.User			"User Saved Successfully"
//	@Failure		400		{object}	ErrorResponse		"Validation failed or User Already Exists"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/auth [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		Name:        strings.TrimSpace(payload.Name),
		Email:       payload.Email,
		Institution: payload.Institution,
		Occupation:  payload.Occupation,
		Role:        users.RoleStudent,
	}
	if _, ok := app.config.adminEmails[user.Email]; ok {
		user.Role = users.RoleAdmin
	}

	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("user registered", "user_id", user.ID, "role", user.Role)

	if err := app.jsonResponse(w, http.StatusCreated, "User Saved Successfully", user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse is returned on successful login and token refresh.
type LoginResponse struct {
	User         *users.User `json:"user"`
	Role         users.Role  `json:"role"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// issueTokens generates a token pair and stores the refresh token on the user.
func (app *application) issueTokens(r *http.Request, user *users.User) (*LoginResponse, error) {
	accessToken, refreshToken, err := app.authenticator.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := app.store.Users.SaveRefreshToken(r.Context(), user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// loginHandler godoc
//
//	@Summary		Login
//	@Description	Checks credentials and returns the profile with an access and a refresh token.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"User credentials"
//	@Success		200		{object}	LoginResponse	"Login Successful"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse	"Wrong password"
//	@Failure		404		{object}	ErrorResponse	"Unknown email"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.logger.Warnw("login for unknown email", "path", r.URL.Path)
			app.errorResponse(w, http.StatusNotFound, errInvalidCredentials.Error(), err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.logger.Warnw("login with wrong password", "user_id", user.ID)
		app.errorResponse(w, http.StatusUnauthorized, errInvalidCredentials.Error(), err)
		return
	}

	resp, err := app.issueTokens(r, user)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "Login Successful", resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RefreshPayload struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// refreshTokenHandler godoc
//
//	@Summary		Refresh authentication tokens
//	@Description	Validates the refresh token against the stored one and rotates both tokens.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RefreshPayload	true	"Refresh token payload"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/auth/refresh [post]
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RefreshPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil || !token.Valid {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid refresh token"))
		return
	}

	userID, err := auth.UserID(token)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	savedToken, err := app.store.Users.GetRefreshToken(r.Context(), userID)
	if err != nil || savedToken != payload.RefreshToken {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("refresh token mismatch"))
		return
	}

	user, err := app.store.Users.GetByID(r.Context(), userID)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	resp, err := app.issueTokens(r, user)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "", resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler godoc
//
//	@Summary		Logout
//	@Description	Revokes the stored refresh token.
//	@Tags			authentication
//	@Produce		json
//	@Success		200	{object}	envelope	"Logout Success"
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/auth/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.store.Users.DeleteRefreshToken(r.Context(), user.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "Logout Success", nil); err != nil {
		app.internalServerError(w, r, err)
	}
}
