package posts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ponloe/postboard/internal/auth"
	"github.com/Ponloe/postboard/internal/httpx"
	"github.com/Ponloe/postboard/internal/users"
	"github.com/Ponloe/postboard/internal/validation"
)

const (
	msgPostNotFound    = "Post not found"
	msgNotAuthorized   = "User not authorized"
	msgCommentNotFound = "Comment not found"
)

type Handler struct {
	posts *Service
	dir   *users.Directory
}

func NewHandler(posts *Service, dir *users.Directory) *Handler {
	return &Handler{posts: posts, dir: dir}
}

type textDTO struct {
	Text string `json:"text" binding:"required" msg:"Text is required"`
}

// Create handles POST /api/posts.
func (h *Handler) Create(c *gin.Context) {
	var body textDTO
	if errs := validation.Bind(c, &body); errs != nil {
		httpx.Errors(c, errs)
		return
	}

	author, ok := h.caller(c)
	if !ok {
		return
	}

	p, err := h.posts.Create(c.Request.Context(), author, body.Text)
	if err != nil {
		httpx.ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// List handles GET /api/posts.
func (h *Handler) List(c *gin.Context) {
	ps, err := h.posts.List(c.Request.Context())
	if err != nil {
		httpx.ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

// Get handles GET /api/posts/:id.
func (h *Handler) Get(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Msg(c, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusBadRequest, msgPostNotFound)
	case err != nil:
		httpx.ServerError(c, err)
	default:
		c.JSON(http.StatusOK, p)
	}
}

// Delete handles DELETE /api/posts/:id.
func (h *Handler) Delete(c *gin.Context) {
	err := h.posts.Delete(c.Request.Context(), c.Param("id"), auth.UserID(c))
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusBadRequest, msgPostNotFound)
	case errors.Is(err, ErrForbidden):
		httpx.Msg(c, http.StatusUnauthorized, msgNotAuthorized)
	case err != nil:
		httpx.ServerError(c, err)
	default:
		httpx.Msg(c, http.StatusOK, "Post removed")
	}
}

// Like handles PUT /api/posts/like/:id.
func (h *Handler) Like(c *gin.Context) {
	likes, err := h.posts.AddLike(c.Request.Context(), c.Param("id"), auth.UserID(c))
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusBadRequest, msgPostNotFound)
	case errors.Is(err, ErrAlreadyLiked):
		httpx.Msg(c, http.StatusBadRequest, "Post already liked")
	case err != nil:
		httpx.ServerError(c, err)
	default:
		c.JSON(http.StatusOK, likes)
	}
}

// Unlike handles PUT /api/posts/unlike/:id.
func (h *Handler) Unlike(c *gin.Context) {
	likes, err := h.posts.RemoveLike(c.Request.Context(), c.Param("id"), auth.UserID(c))
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusBadRequest, msgPostNotFound)
	case errors.Is(err, ErrNotLiked):
		httpx.Msg(c, http.StatusBadRequest, "Post has not yet been liked")
	case err != nil:
		httpx.ServerError(c, err)
	default:
		c.JSON(http.StatusOK, likes)
	}
}

// Comment handles POST /api/posts/comment/:id.
func (h *Handler) Comment(c *gin.Context) {
	var body textDTO
	if errs := validation.Bind(c, &body); errs != nil {
		httpx.Errors(c, errs)
		return
	}

	author, ok := h.caller(c)
	if !ok {
		return
	}

	comments, err := h.posts.AddComment(c.Request.Context(), c.Param("id"), author, body.Text)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusNotFound, msgPostNotFound)
	case err != nil:
		httpx.ServerError(c, err)
	default:
		c.JSON(http.StatusOK, comments)
	}
}

// Uncomment handles DELETE /api/posts/comment/:id/:comment_id.
func (h *Handler) Uncomment(c *gin.Context) {
	comments, err := h.posts.RemoveComment(c.Request.Context(), c.Param("id"), c.Param("comment_id"), auth.UserID(c))
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.Msg(c, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, ErrCommentNotFound):
		httpx.Msg(c, http.StatusNotFound, msgCommentNotFound)
	case errors.Is(err, ErrForbidden):
		httpx.Msg(c, http.StatusUnauthorized, msgNotAuthorized)
	case err != nil:
		httpx.ServerError(c, err)
	default:
		c.JSON(http.StatusOK, comments)
	}
}

// caller loads the authenticated user for the author snapshot. It writes
// the response itself when it returns false.
func (h *Handler) caller(c *gin.Context) (*users.User, bool) {
	u, err := h.dir.FindByID(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrInvalidID) {
		httpx.Msg(c, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	if err != nil {
		httpx.ServerError(c, err)
		return nil, false
	}
	return u, true
}
