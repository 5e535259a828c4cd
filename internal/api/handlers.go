package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/pixelcraft/internal/assist"
	"github.com/youruser/pixelcraft/internal/design"
	"github.com/youruser/pixelcraft/internal/editor"
	imagepkg "github.com/youruser/pixelcraft/internal/image"
	"github.com/youruser/pixelcraft/internal/presets"
)

const sessionKey = "session"

// Handlers serves the editing API.
type Handlers struct {
	sessions  *editor.Registry
	all       []presets.Preset
	exportDir string
	now       func() time.Time
}

// NewHandlers returns handlers over sessions. When exportDir is not empty
// every export is also written there.
func NewHandlers(sessions *editor.Registry, all []presets.Preset, exportDir string) *Handlers {
	return &Handlers{sessions: sessions, all: all, exportDir: exportDir, now: time.Now}
}

func errorJSON(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, design.ErrInvalidSize),
		errors.Is(err, design.ErrInvalidColor),
		errors.Is(err, design.ErrInvalidFontSize),
		errors.Is(err, design.ErrInvalidOpacity),
		errors.Is(err, imagepkg.ErrUnsupportedSource),
		errors.Is(err, editor.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrNotFound), errors.Is(err, errLayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, assist.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

var (
	errLayerNotFound  = errors.New("layer not found")
	errUnknownPreset  = errors.New("unknown preset")
	errMissingSize    = errors.New("width and height are required")
	errMissingOpacity = errors.New("opacity is required")
	errNoBackground   = errors.New("no background image")
)

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) listPresets(c *gin.Context) {
	out := presets.Filter(h.all, presets.FilterOptions{
		Orientation: c.Query("orientation"),
		FreeWords:   c.Query("q"),
	})
	c.JSON(http.StatusOK, gin.H{"count": len(out), "presets": out})
}

func fonts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fonts": presets.Fonts})
}

// loadSession resolves :id for the routes of the session group.
func (h *Handlers) loadSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func session(c *gin.Context) *editor.Session {
	return c.MustGet(sessionKey).(*editor.Session)
}

// changed reports a successful mutation and answers with the new state.
func changed(c *gin.Context, s *editor.Session) {
	s.Changed()
	c.JSON(http.StatusOK, s.View())
}

func (h *Handlers) createSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, s.View())
}

func (h *Handlers) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).View())
}

func (h *Handlers) deleteSession(c *gin.Context) {
	if err := h.sessions.Delete(session(c).ID); err != nil {
		errorJSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) setSize(c *gin.Context) {
	var req struct {
		Preset string `json:"preset"`
		Width  *int   `json:"width"`
		Height *int   `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := session(c)
	var err error
	switch {
	case req.Preset != "":
		p, ok := presets.Lookup(h.all, req.Preset)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v %q", errUnknownPreset, req.Preset)})
			return
		}
		err = s.Store.SetPreset(p)
	case req.Width != nil && req.Height != nil:
		err = s.Store.SetCanvasSize(*req.Width, *req.Height)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errMissingSize.Error()})
		return
	}
	if err != nil {
		errorJSON(c, err)
		return
	}
	changed(c, s)
}

func (h *Handlers) setBackground(c *gin.Context) {
	var req struct {
		Color      *string `json:"color"`
		Image      *string `json:"image"`
		ClearImage bool    `json:"clear_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// an elided source sent back from a view keeps the current image
	if req.Image != nil && strings.HasPrefix(*req.Image, editor.ElidedPrefix) {
		req.Image = nil
	}
	if req.Image != nil && *req.Image != "" && !imagepkg.ValidSource(*req.Image) {
		errorJSON(c, imagepkg.ErrUnsupportedSource)
		return
	}
	s := session(c)
	if req.Color != nil {
		if err := s.Store.SetBackgroundColor(*req.Color); err != nil {
			errorJSON(c, err)
			return
		}
	}
	switch {
	case req.ClearImage:
		s.Store.SetBackgroundImage("")
	case req.Image != nil:
		s.Store.SetBackgroundImage(*req.Image)
	}
	changed(c, s)
}

// backgroundImage serves the current background source, which session
// views elide when it is a long data: URL.
func (h *Handlers) backgroundImage(c *gin.Context) {
	doc, _ := session(c).Store.Snapshot()
	src := doc.BackgroundImage
	if src == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": errNoBackground.Error()})
		return
	}
	if !strings.HasPrefix(src, "data:") {
		c.Redirect(http.StatusFound, src)
		return
	}
	mimeType, data, err := imagepkg.ParseDataURL(src)
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}

func (h *Handlers) setOverlay(c *gin.Context) {
	var req struct {
		Opacity *float64 `json:"opacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Opacity == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errMissingOpacity.Error()})
		return
	}
	s := session(c)
	if err := s.Store.SetOverlayOpacity(*req.Opacity); err != nil {
		errorJSON(c, err)
		return
	}
	changed(c, s)
}

func (h *Handlers) addLayer(c *gin.Context) {
	s := session(c)
	l := s.Store.AddTextLayer()
	s.Changed()
	c.JSON(http.StatusCreated, l)
}

func (h *Handlers) updateLayer(c *gin.Context) {
	var patch design.TextLayerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := session(c)
	found, err := s.Store.UpdateTextLayer(c.Param("layer"), patch)
	if err != nil {
		errorJSON(c, err)
		return
	}
	if !found {
		errorJSON(c, errLayerNotFound)
		return
	}
	changed(c, s)
}

func (h *Handlers) removeLayer(c *gin.Context) {
	s := session(c)
	if !s.Store.RemoveTextLayer(c.Param("layer")) {
		errorJSON(c, errLayerNotFound)
		return
	}
	s.Changed()
	c.Status(http.StatusNoContent)
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handlers) generateBackground(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := session(c)
	err := s.GenerateBackground(c.Request.Context(), req.Prompt)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, s.View())
	case errors.Is(err, editor.ErrEmptyPrompt), errors.Is(err, assist.ErrMissingAPIKey):
		errorJSON(c, err)
	default:
		log.Printf("api: session %s: background generation: %v", s.ID, err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": editor.GenerationFailedMessage})
	}
}

func (h *Handlers) suggestTaglines(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := session(c)
	taglines, err := s.SuggestTaglines(c.Request.Context(), req.Prompt)
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taglines": taglines, "session": s.View()})
}

func (h *Handlers) render(c *gin.Context) {
	s := session(c)
	frame, v, err := s.Render(c.Request.Context())
	if err != nil {
		errorJSON(c, err)
		return
	}
	scale := 1.0
	if q := c.Query("scale"); q != "" {
		f, err := strconv.ParseFloat(q, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid scale"})
			return
		}
		scale = f
	}
	buf := new(bytes.Buffer)
	if err := imagepkg.EncodePNG(buf, imagepkg.Preview(frame, scale)); err != nil {
		errorJSON(c, err)
		return
	}
	c.Header("ETag", fmt.Sprintf(`"%s-%d"`, s.ID, v))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handlers) export(c *gin.Context) {
	s := session(c)
	frame, _, err := s.Render(c.Request.Context())
	if err != nil {
		errorJSON(c, err)
		return
	}
	now := h.now()
	if h.exportDir != "" {
		path, err := imagepkg.SaveExport(h.exportDir, frame, now)
		if err != nil {
			errorJSON(c, err)
			return
		}
		log.Printf("api: session %s exported to %s", s.ID, path)
	}
	buf := new(bytes.Buffer)
	if err := imagepkg.EncodePNG(buf, frame); err != nil {
		errorJSON(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, imagepkg.FileName(now)))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// shareCode answers with a QR code linking to the session's rendered image.
func (h *Handlers) shareCode(c *gin.Context) {
	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	url := fmt.Sprintf("%s://%s/api/sessions/%s/render.png", scheme, c.Request.Host, session(c).ID)
	b, err := imagepkg.ShareCode(url, size)
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
