package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ponloe/postboard/internal/auth"
	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

// Deps are the repositories and token service behind the HTTP API.
type Deps struct {
	Users  users.Repository
	Posts  posts.Repository
	Tokens *auth.TokenService
	// BcryptCost overrides bcrypt.DefaultCost when non-zero.
	BcryptCost int
}

// NewRouter wires every route. Everything except registration, login and
// the health check requires an x-auth-token header.
func NewRouter(d Deps, middleware ...gin.HandlerFunc) *gin.Engine {
	dir := users.NewDirectory(d.Users)
	if d.BcryptCost != 0 {
		dir.WithCost(d.BcryptCost)
	}

	usersH := users.NewHandler(dir, d.Tokens)
	authH := auth.NewHandler(dir, d.Tokens)
	postsH := posts.NewHandler(posts.NewService(d.Posts), dir)
	requireAuth := auth.RequireAuth(d.Tokens)

	r := gin.New()
	r.Use(middleware...)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/users", usersH.Register)
	api.POST("/auth", authH.Login)
	api.GET("/auth", requireAuth, authH.Me)

	p := api.Group("/posts", requireAuth)
	p.GET("", postsH.List)
	p.POST("", postsH.Create)
	p.GET("/:id", postsH.Get)
	p.DELETE("/:id", postsH.Delete)
	p.PUT("/like/:id", postsH.Like)
	p.PUT("/unlike/:id", postsH.Unlike)
	p.POST("/comment/:id", postsH.Comment)
	p.DELETE("/comment/:id/:comment_id", postsH.Uncomment)

	return r
}
