package main

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login email isn't
// found. Running bcrypt against it (instead of returning early) keeps
// response time constant, preventing timing-based account enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validEmail checks the basic user@host.tld shape.
func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

// strongPassword enforces the minimum password policy: at least 8
// characters containing both letters and digits. Returns a user-facing
// reason when the check fails.
func strongPassword(pw string) (bool, string) {
	if len(pw) < 8 {
		return false, "at least 8 characters"
	}
	if !hasLetter.MatchString(pw) || !hasDigit.MatchString(pw) {
		return false, "passwords should include letters and numbers"
	}
	return true, ""
}

// register creates a user with a bcrypt-hashed password and a fresh auth
// token, plus the empty profile and default settings rows.
// POST /api/register (public — no auth required).
func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if !validEmail(body.Email) {
		apiError(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if ok, reason := strongPassword(body.Password); !ok {
		apiError(c, http.StatusBadRequest, reason)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	u, err := h.store.CreateUser(c.Request.Context(), body.Email, body.Name, string(hash), uuid.New().String())
	if err != nil {
		if errors.Is(err, errDuplicateEmail) {
			apiError(c, http.StatusConflict, "this email has been registered")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// login verifies email/password and returns the user's auth token.
// POST /api/login (public — no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.store.UserByEmail(c.Request.Context(), strings.TrimSpace(strings.ToLower(body.Email)))

	// Always run bcrypt to keep response time constant regardless of whether
	// the email was found — prevents timing-based account enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		u, err := h.store.UserByToken(c.Request.Context(), token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", u.ID)
		c.Next()
	}
}
