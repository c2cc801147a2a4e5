package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/MosinFAM/microblog/internal/forms"

	"github.com/gin-gonic/gin"
)

// translate proxies a translation request and answers with JSON.
func (s *Server) translate(c *gin.Context) {
	var form forms.TranslateForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "missing form fields",
			"fields": forms.FromError(err),
		})
		return
	}

	text, err := s.Translator.Translate(c.Request.Context(), form.Text, form.SourceLanguage, form.DestLanguage)
	if err != nil {
		slog.Error("translation failed", "err", err, "from", form.SourceLanguage, "to", form.DestLanguage)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
