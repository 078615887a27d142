package middleware

import (
	"encoding/gob"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// FlashCookie is the signed cookie that carries flash messages across a redirect.
const FlashCookie = "flash"

// Flash kinds double as CSS classes.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// FlashSessions installs the cookie store that AddFlash and Flashes use.
// It must run before any middleware that adds a flash.
func FlashSessions(secret []byte, secure bool) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(FlashCookie, store)
}

// AddFlash queues a message. Messages already waiting in the cookie are kept,
// and the message is also visible to a render later in the same request.
func AddFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Kind: kind, Message: message})
	if err := session.Save(); err != nil {
		log.Printf("WARNING: could not save flash: %v", err)
	}
}

// Flashes returns every pending message, oldest first, and clears them.
func Flashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Printf("WARNING: could not clear flashes: %v", err)
	}

	out := lo.FilterMap(raw, func(v interface{}, _ int) (Flash, bool) {
		f, ok := v.(Flash)
		return f, ok
	})
	return lo.Uniq(out)
}
