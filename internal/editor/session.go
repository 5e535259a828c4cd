package editor

import (
	"context"
	"errors"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/youruser/pixelcraft/internal/assist"
	"github.com/youruser/pixelcraft/internal/design"
	imagepkg "github.com/youruser/pixelcraft/internal/image"
)

// Status tracks the last AI assist request of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// GenerationFailedMessage is shown for any image generation failure other
// than a missing credential.
const GenerationFailedMessage = "Failed to generate image. Please try again."

var ErrEmptyPrompt = errors.New("prompt is empty")

// maxRenderAttempts bounds how often a render is restarted because the
// document changed while its background was decoding.
const maxRenderAttempts = 3

// Env holds the collaborators shared by all sessions.
type Env struct {
	Compositor *imagepkg.Compositor
	Loader     *imagepkg.Loader
	Assist     *assist.Client
	AITimeout  time.Duration
	// Prerender renders in the background after every change.
	Prerender bool
}

// Session is one editing session: its document plus the rendered frame and
// AI request status derived from it.
type Session struct {
	ID    string
	Store *design.Store

	env *Env
	sem chan struct{} // serializes renders

	mu           sync.Mutex
	status       Status
	message      string
	frame        *image.NRGBA
	frameVersion uint64
	renders      int
}

// maxInlineSource is the longest data: URL a View repeats in full.
const maxInlineSource = 1024

// View is the JSON representation of a session. A long data: URL
// background is replaced in Document by an "elided:" marker and described
// by Background; the image itself is served separately.
type View struct {
	ID         string          `json:"id"`
	Version    uint64          `json:"version"`
	Document   design.Document `json:"document"`
	Background *SourceInfo     `json:"background,omitempty"`
	Status     Status          `json:"status"`
	Message    string          `json:"message,omitempty"`
}

// SourceInfo identifies an elided background image.
type SourceInfo struct {
	ID       string `json:"id"`
	MIMEType string `json:"mime_type"`
	Length   int    `json:"length"`
}

// ElidedPrefix starts the marker that stands in for a long data: URL.
const ElidedPrefix = "elided:"

func elide(src string) (string, *SourceInfo) {
	if len(src) <= maxInlineSource || !strings.HasPrefix(src, "data:") {
		return src, nil
	}
	meta, _, _ := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	mimeType, _, _ := strings.Cut(meta, ";")
	info := &SourceInfo{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(src)).String(),
		MIMEType: mimeType,
		Length:   len(src),
	}
	return ElidedPrefix + info.ID, info
}

func NewSession(id string, env *Env, opts ...design.Option) *Session {
	return &Session{
		ID:     id,
		Store:  design.NewStore(opts...),
		env:    env,
		sem:    make(chan struct{}, 1),
		status: StatusIdle,
	}
}

func (s *Session) View() View {
	doc, v := s.Store.Snapshot()
	st, msg := s.Status()
	var info *SourceInfo
	doc.BackgroundImage, info = elide(doc.BackgroundImage)
	return View{ID: s.ID, Version: v, Document: doc, Background: info, Status: st, Message: msg}
}

func (s *Session) Status() (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.message
}

func (s *Session) setStatus(st Status, msg string) {
	s.mu.Lock()
	s.status, s.message = st, msg
	s.mu.Unlock()
}

// Changed is called after a document mutation. It starts decoding a new
// background right away and, with Prerender set, renders the new version in
// the background.
func (s *Session) Changed() {
	doc, _ := s.Store.Snapshot()
	if doc.BackgroundImage != "" {
		s.env.Loader.Load(doc.BackgroundImage)
	}
	if !s.env.Prerender {
		return
	}
	go func() {
		if _, _, err := s.Render(context.Background()); err != nil {
			log.Printf("render: session %s: %v", s.ID, err)
		}
	}()
}

// Render returns the frame of the current document version. The compositor
// only runs once the background image is decoded; a render whose document
// was superseded while waiting is dropped and restarted from the newer
// version. A background that fails to decode is left out.
func (s *Session) Render(ctx context.Context) (*image.NRGBA, uint64, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
	defer func() { <-s.sem }()

	for attempt := 1; ; attempt++ {
		doc, v := s.Store.Snapshot()
		if f := s.cached(v); f != nil {
			return f, v, nil
		}

		var bg image.Image
		if doc.BackgroundImage != "" {
			img, err := s.env.Loader.Load(doc.BackgroundImage).Wait(ctx)
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			if err == nil {
				bg = img
			}
		}
		if s.Store.Version() != v && attempt < maxRenderAttempts {
			continue
		}

		frame := s.env.Compositor.Render(doc, bg)
		s.mu.Lock()
		s.renders++
		if v >= s.frameVersion {
			s.frame, s.frameVersion = frame, v
		}
		s.mu.Unlock()
		return frame, v, nil
	}
}

func (s *Session) cached(v uint64) *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame != nil && s.frameVersion == v {
		return s.frame
	}
	return nil
}

func (s *Session) aiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.env.AITimeout > 0 {
		return context.WithTimeout(ctx, s.env.AITimeout)
	}
	return context.WithCancel(ctx)
}

// GenerateBackground replaces the background image with one generated from
// prompt. On failure the document is left untouched and the session status
// carries the user facing message. A missing API key is only returned to
// the caller; the status is left as it was.
func (s *Session) GenerateBackground(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if !s.env.Assist.Configured() {
		return assist.ErrMissingAPIKey
	}
	s.setStatus(StatusLoading, "")
	ctx, cancel := s.aiContext(ctx)
	defer cancel()

	img, err := s.env.Assist.GenerateBackgroundImage(ctx, prompt)
	if err != nil {
		s.setStatus(StatusError, GenerationFailedMessage)
		return err
	}
	if err := s.Store.SetBackgroundImage(img.DataURL()); err != nil {
		s.setStatus(StatusError, GenerationFailedMessage)
		return err
	}
	s.Changed()
	s.setStatus(StatusSuccess, "")
	return nil
}

// SuggestTaglines fetches taglines for prompt and puts the first one on the
// first text layer.
func (s *Session) SuggestTaglines(ctx context.Context, prompt string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !s.env.Assist.Configured() {
		return nil, assist.ErrMissingAPIKey
	}
	s.setStatus(StatusLoading, "")
	ctx, cancel := s.aiContext(ctx)
	defer cancel()

	taglines, err := s.env.Assist.SuggestTaglines(ctx, prompt)
	if err != nil {
		s.setStatus(StatusError, err.Error())
		return nil, err
	}
	if len(taglines) > 0 {
		s.Store.ApplyTagline(taglines[0])
		s.Changed()
	}
	s.setStatus(StatusSuccess, "")
	return taglines, nil
}
