package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactSessionCookie identifies a visitor's contact form across requests.
const ContactSessionCookie = "zf_contact_session"

type sessionCookies struct {
	secure bool
}

// get returns the visitor's session ID. With create set, a missing or
// malformed cookie is replaced by a fresh one.
func (s sessionCookies) get(c *gin.Context, create bool) (string, bool) {
	if id, err := c.Cookie(ContactSessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id, true
		}
	}
	if !create {
		return "", false
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ContactSessionCookie, id, 0, "/", "", s.secure, true)
	return id, true
}

func (s sessionCookies) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ContactSessionCookie, "", -1, "/", "", s.secure, true)
}
