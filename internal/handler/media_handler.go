package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// MediaHandler streams stored audio files behind signed tokens.
type MediaHandler struct {
	service *service.ListeningAudioService
}

// NewMediaHandler constructs a media handler.
func NewMediaHandler(svc *service.ListeningAudioService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// ServeAudio godoc
// @Summary Stream a listening audio file via a signed token
// @Tags Media
// @Produce audio/mpeg
// @Param token path string true "Signed audio token"
// @Success 200 {file} binary
// @Router /media/audio/{token} [get]
func (h *MediaHandler) ServeAudio(c *gin.Context) {
	f, err := h.service.ResolveAudio(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		c.Header("Content-Type", ct)
	}
	c.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(c.Writer, c.Request, filepath.Base(f.Name()), info.ModTime(), f)
}
