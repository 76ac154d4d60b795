package users

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL returns the 200px, PG-rated Gravatar for email, falling back
// to the "mystery man" image.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=mm&r=pg&s=200"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
