package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	flashKey    = "flashes"
)

// addFlash queues a message for the next rendered page.
func addFlash(c *gin.Context, msg string) {
	msgs := append(pendingFlashes(c), msg)
	c.Set(flashKey, msgs)

	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	setCookie(c, flashCookie, base64.RawURLEncoding.EncodeToString(raw), 0)
}

func pendingFlashes(c *gin.Context) []string {
	if v, ok := c.Get(flashKey); ok {
		msgs, _ := v.([]string)
		return msgs
	}
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}

// popFlashes returns the queued messages and forgets them.
func popFlashes(c *gin.Context) []string {
	msgs := pendingFlashes(c)
	if len(msgs) > 0 {
		setCookie(c, flashCookie, "", -1)
	}
	c.Set(flashKey, []string{})
	return msgs
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
