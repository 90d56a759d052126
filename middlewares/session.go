package middlewares

import "github.com/gin-gonic/gin"

const sessionKey = "session"

// Session is the authenticated actor for a request. Every operation
// that needs an identity or a role reads it from here; nothing is kept
// in package-level state.
type Session struct {
	UserID uint
	Role   string
}

// SessionFrom returns the request's actor, if the auth middleware ran.
func SessionFrom(c *gin.Context) (Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	sess, ok := value.(Session)
	return sess, ok
}

// SetSession attaches the actor to the request context.
func SetSession(c *gin.Context, sess Session) {
	c.Set(sessionKey, sess)
	// Kept alongside the struct for handlers that only need the role.
	c.Set("user_id", sess.UserID)
	c.Set("role", sess.Role)
}
