package handler

import (
	"net/http"
	"strconv"
	"strings"

	"taskapp/internal/middleware"
	"taskapp/internal/model"
	"taskapp/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userRepo *repository.UserRepository
}

func NewUserHandler(userRepo *repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// UserResponse is the user shape rendered into the admin pages. The
// passcode is included because the admin edit form round-trips it.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Passcode string `json:"passcode"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Passcode: u.Passcode,
		IsAdmin:  u.IsAdmin,
	}
}

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "User not found!")
		return 0, false
	}
	return uint(id), true
}

// ManageUsers lists every user for the admin management page.
func (h *UserHandler) ManageUsers(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// CreateUserPage serves the user-creation form data.
func (h *UserHandler) CreateUserPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Submit username, passcode and is_admin"})
}

// CreateUser adds a user. The username is stored lowercase; a duplicate
// propagates as a storage failure rather than a friendly message.
func (h *UserHandler) CreateUser(c *gin.Context) {
	user := &model.User{
		Username: strings.ToLower(strings.TrimSpace(c.PostForm("username"))),
		Passcode: c.PostForm("passcode"),
		IsAdmin:  c.PostForm("is_admin") == "on",
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	c.Redirect(http.StatusFound, "/admin_actions")
}

// EditUserPage serves one user's data for the admin edit form.
func (h *UserHandler) EditUserPage(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.String(http.StatusNotFound, "User not found!")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// EditUser overwrites a user's username, passcode and admin flag.
func (h *UserHandler) EditUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.String(http.StatusNotFound, "User not found!")
		return
	}

	user.Username = strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	user.Passcode = c.PostForm("passcode")
	user.IsAdmin = c.PostForm("is_admin") == "on"

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.Redirect(http.StatusFound, "/manage_users")
}

// DeleteUser removes a user. Deleting yourself or the last remaining
// administrator is silently refused with a redirect, not an error.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.String(http.StatusNotFound, "User not found!")
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if user.Username == principal.Username {
		c.Redirect(http.StatusFound, "/manage_users")
		return
	}

	if user.IsAdmin {
		admins, err := h.userRepo.CountAdmins(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count admins"})
			return
		}
		if admins <= 1 {
			c.Redirect(http.StatusFound, "/manage_users")
			return
		}
	}

	if err := h.userRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}

	c.Redirect(http.StatusFound, "/manage_users")
}
