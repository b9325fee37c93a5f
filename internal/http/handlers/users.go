package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/geocoder89/pcblog/internal/domain/user"
	"github.com/geocoder89/pcblog/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type UsersHandler struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUsersHandler(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *UsersHandler {
	return &UsersHandler{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := normalizeEmail(req.Email)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	_, err := h.users.GetByEmail(cctx, email)

	switch {
	case err == nil:
		RespondConflict(ctx, "email_taken", "User already exists")
		return
	case !errors.Is(err, user.ErrNotFound):
		RespondInternal(ctx, "Could not create user", err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user", err)
		return
	}

	u, err := h.users.Create(cctx, strings.TrimSpace(req.Name), email, hash)

	if err != nil {
		// lost the race against a concurrent register with the same email
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "User already exists")
			return
		}

		RespondInternal(ctx, "Could not create user", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u.Profile(),
	})
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, normalizeEmail(req.Email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
			return
		}

		RespondInternal(ctx, "Could not log in", err)
		return
	}

	if err := h.hasher.Check(found.PasswordHash, req.Password); err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: found.ID, Name: found.Name, Email: found.Email})

	if err != nil {
		RespondInternal(ctx, "Could not generate access token", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    found.Profile(),
	})
}

func (h *UsersHandler) Profile(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	// read from the store so a renamed or deleted account is reflected
	u, err := h.users.GetByID(cctx, id.ID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch profile", err)
		return
	}

	ctx.JSON(http.StatusOK, u.Profile())
}

// emails are unique exactly as stored, only surrounding whitespace is dropped
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
