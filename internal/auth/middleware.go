package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ponloe/postboard/internal/httpx"
	"github.com/Ponloe/postboard/internal/users"
	"github.com/Ponloe/postboard/internal/validation"
)

type Handler struct {
	dir    *users.Directory
	tokens *TokenService
}

func NewHandler(dir *users.Directory, tokens *TokenService) *Handler {
	return &Handler{dir: dir, tokens: tokens}
}

type loginDTO struct {
	Email    string `json:"email" binding:"email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required" msg:"Password is required"`
}

// Login handles POST /api/auth.
func (h *Handler) Login(c *gin.Context) {
	var dto loginDTO
	if errs := validation.Bind(c, &dto); errs != nil {
		httpx.Errors(c, errs)
		return
	}

	u, err := h.dir.FindByEmail(c.Request.Context(), dto.Email)
	if errors.Is(err, users.ErrNotFound) {
		invalidCredentials(c)
		return
	}
	if err != nil {
		httpx.ServerError(c, err)
		return
	}

	if !h.dir.VerifyPassword(u, dto.Password) {
		invalidCredentials(c)
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		httpx.ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// Me handles GET /api/auth and returns the caller without the password.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.dir.FindByID(c.Request.Context(), UserID(c))
	if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrInvalidID) {
		httpx.Msg(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		httpx.ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func invalidCredentials(c *gin.Context) {
	httpx.Errors(c, []gin.H{{"msg": "Invalid credentials"}})
}
