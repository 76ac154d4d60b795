package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ponloe/postboard/internal/httpx"
	"github.com/Ponloe/postboard/internal/validation"
)

// TokenIssuer signs a session token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Handler struct {
	dir    *Directory
	tokens TokenIssuer
}

func NewHandler(dir *Directory, tokens TokenIssuer) *Handler {
	return &Handler{dir: dir, tokens: tokens}
}

type registerDTO struct {
	Name     string `json:"name" binding:"required" msg:"Name is required"`
	Email    string `json:"email" binding:"email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"min=6" msg:"Please enter a password with 6 or more characters"`
}

// Register handles POST /api/users.
func (h *Handler) Register(c *gin.Context) {
	var body registerDTO
	if errs := validation.Bind(c, &body); errs != nil {
		httpx.Errors(c, errs)
		return
	}

	u, err := h.dir.Register(c.Request.Context(), body.Name, body.Email, body.Password)
	if errors.Is(err, ErrDuplicateEmail) {
		httpx.Errors(c, []gin.H{{"msg": "User already exists"}})
		return
	}
	if err != nil {
		httpx.ServerError(c, err)
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		httpx.ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}
