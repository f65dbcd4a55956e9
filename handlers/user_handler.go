package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"ballotbox/auth"
	"ballotbox/middleware"
	"ballotbox/models"
	"ballotbox/repositories"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// national ids are exactly 12 decimal digits
var nationalIDPattern = regexp.MustCompile(`^\d{12}$`)

const invalidCredentialsMsg = "Invalid national id or password"

// UserHandler handles signup, login and profile operations.
type UserHandler struct {
	Users  repositories.UserStore
	Tokens *auth.TokenService
}

func NewUserHandler(users repositories.UserStore, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens}
}

type signupRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

// Signup handles POST /user/signup.
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	if req.Name == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Name and password are required"})
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleVoter
	}
	if !role.Valid() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Role must be voter or admin"})
	}

	if role == models.RoleAdmin {
		exists, err := h.Users.AdminExists()
		if err != nil {
			log.WithError(err).Error("admin existence check failed")
			return internalError(c)
		}
		if exists {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Admin user already exists"})
		}
	}

	if !nationalIDPattern.MatchString(req.NationalID) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "National id must be exactly 12 digits"})
	}

	if _, err := h.Users.GetByNationalID(req.NationalID); err == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "User with the same national id already exists"})
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.WithError(err).Error("national id lookup failed")
		return internalError(c)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("password hashing failed")
		return internalError(c)
	}

	user := models.User{
		Name:         req.Name,
		NationalID:   req.NationalID,
		Role:         role,
		PasswordHash: string(hashed),
	}
	if err := h.Users.Create(&user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateNationalID) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "User with the same national id already exists"})
		}
		log.WithError(err).Error("user creation failed")
		return internalError(c)
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		log.WithError(err).Error("token issuance failed")
		return internalError(c)
	}
	setTokenCookie(c, token)

	return c.Status(http.StatusOK).JSON(fiber.Map{"user": user, "token": token})
}

type loginRequest struct {
	NationalID string `json:"nationalId"`
	Password   string `json:"password"`
}

// Login handles POST /user/login. Lookup and password failures return
// the same message so callers cannot probe which ids are registered.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	if req.NationalID == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "National id and password are required"})
	}

	user, err := h.Users.GetByNationalID(req.NationalID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": invalidCredentialsMsg})
		}
		log.WithError(err).Error("login lookup failed")
		return internalError(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": invalidCredentialsMsg})
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		log.WithError(err).Error("token issuance failed")
		return internalError(c)
	}
	setTokenCookie(c, token)

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Login successful", "token": token})
}

// Profile handles GET /user/profile.
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.WithError(err).Error("profile lookup failed")
		return internalError(c)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /user/profile/password.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Both currentPassword and newPassword are required"})
	}

	user, err := h.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.WithError(err).Error("password change lookup failed")
		return internalError(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid current password"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("password hashing failed")
		return internalError(c)
	}

	if err := h.Users.UpdatePassword(userID, string(hashed)); err != nil {
		log.WithError(err).Error("password update failed")
		return internalError(c)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password updated"})
}

// setTokenCookie mirrors the token into an HTTP-only cookie. The auth
// gate only honors the Authorization header; the cookie is a
// convenience for browser clients.
func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(auth.TokenTTL),
		HTTPOnly: true,
		Secure:   true,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
