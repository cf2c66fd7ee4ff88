package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-banner-api/common"
	"go-banner-api/logger"
	"go-banner-api/model"
	"go-banner-api/service"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// authResponse is the body returned by register and login.
type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account and returns the user together with a fresh session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  handler.authResponse
// @Failure      400  {object}  common.AppError
// @Router       /api/auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"username": req.Username,
		"email":    req.Email,
	})
	log.Info("Register request received")

	user, token, err := h.authService.Register(req)
	if err != nil {
		return appErrorFrom(err, "Could not register user")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{User: user, Token: token})
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns the user with a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200  {object}  handler.authResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, token, err := h.authService.Login(req)
	if err != nil {
		return appErrorFrom(err, "Could not log in")
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(authResponse{User: user, Token: token})
	return nil
}

// Logout godoc
// @Summary      Log out the current session
// @Description  Blacklists the presented token until its natural expiry
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.authService.RevokeToken(r.Context(), extractBearerToken(r)); err != nil {
		return appErrorFrom(err, "Could not log out")
	}

	if user := UserFromContext(r.Context()); user != nil {
		logger.Log.WithField("user_id", user.ID).Info("User logged out")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
	return nil
}

// Profile godoc
// @Summary      Get the current user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	user := UserFromContext(r.Context())
	if user == nil {
		return appErrorFrom(service.ErrUnauthenticated, "")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Description  Admin only. Password hashes are never included.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Router       /api/auth/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return appErrorFrom(err, "Could not retrieve users")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Users may change their own username, email and password. Role changes and updates to other accounts require admin privileges.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                      true "User ID"
// @Param        request body  model.UpdateUserRequest  true "Fields to update"
// @Success      200  {object}  model.User
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/auth/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid user id", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	actor := UserFromContext(r.Context())
	user, svcErr := h.userService.UpdateUser(actor, targetID, req)
	if svcErr != nil {
		return appErrorFrom(svcErr, "Could not update user")
	}

	logger.Log.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
	}).Info("User updated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateUserRole godoc
// @Summary      Update a user's role
// @Description  Admin only. Assigns one of the known role tiers to the target account.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                          true "User ID"
// @Param        request body  model.UpdateUserRoleRequest  true "New role"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/auth/users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid user id", nil)
	}

	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	actor := UserFromContext(r.Context())
	if svcErr := h.userService.UpdateUserRole(actor, targetID, req.Role); svcErr != nil {
		return appErrorFrom(svcErr, "Could not update user role")
	}

	logger.Log.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
		"role":      req.Role,
	}).Info("User role updated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "User role updated successfully"})
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Admin only. Admins cannot delete their own account.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/auth/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid user id", nil)
	}

	actor := UserFromContext(r.Context())
	if svcErr := h.userService.DeleteUser(actor, targetID); svcErr != nil {
		return appErrorFrom(svcErr, "Could not delete user")
	}

	logger.Log.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
	}).Info("User deleted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
	return nil
}
