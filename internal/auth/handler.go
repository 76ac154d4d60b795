package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ponloe/postboard/internal/httpx"
)

// TokenHeader carries the raw session token.
const TokenHeader = "x-auth-token"

const userIDKey = "user_id"

// Verifier resolves a session token to a user id.
type Verifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid token. Expired and forged
// tokens get the same answer.
func RequireAuth(tokens Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.GetHeader(TokenHeader)
		if tok == "" {
			httpx.Msg(c, http.StatusUnauthorized, "No token, authorization denied")
			c.Abort()
			return
		}
		uid, err := tokens.Verify(tok)
		if err != nil {
			httpx.Msg(c, http.StatusUnauthorized, "Token is not valid")
			c.Abort()
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the caller id stored by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
