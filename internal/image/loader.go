package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/pixelcraft/internal/util"
)

var ErrUnsupportedSource = errors.New("unsupported image source")

const (
	defaultCacheSize = 16
	fetchTimeout     = 15 * time.Second
	// a failed source is not retried before this much time has passed
	failureTTL = 30 * time.Second
)

// Asset is the pending result of decoding one image source.
type Asset struct {
	done     chan struct{}
	img      image.Image
	err      error
	failedAt time.Time
}

// Wait blocks until the image is decoded or ctx is done.
func (a *Asset) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-a.done:
		return a.img, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether decoding has finished.
func (a *Asset) Ready() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// Loader decodes image sources in the background, once per source. The
// most recent decodes are kept. A failure is kept for failureTTL, after
// which the next Load retries the source.
type Loader struct {
	mu     sync.Mutex
	assets map[string]*Asset
	order  []string
	max    int
	fetch  func(ctx context.Context, url string) ([]byte, error)
	now    func() time.Time
}

func NewLoader() *Loader {
	return &Loader{
		assets: map[string]*Asset{},
		max:    defaultCacheSize,
		fetch:  util.GetBytes,
		now:    time.Now,
	}
}

// Load returns the asset for src, starting the decode if needed.
func (l *Loader) Load(src string) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.assets[src]; ok {
		if !a.Ready() || a.err == nil || l.now().Sub(a.failedAt) < failureTTL {
			return a
		}
		l.remove(src)
	}
	a := &Asset{done: make(chan struct{})}
	l.assets[src] = a
	l.order = append(l.order, src)
	for len(l.order) > l.max {
		delete(l.assets, l.order[0])
		l.order = l.order[1:]
	}
	go l.decode(src, a)
	return a
}

func (l *Loader) decode(src string, a *Asset) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	a.img, a.err = l.decodeSource(ctx, src)
	if a.err != nil {
		log.Printf("render: background decode failed: %v", a.err)
		l.mu.Lock()
		a.failedAt = l.now()
		l.mu.Unlock()
	}
	close(a.done)
}

// remove drops src from the cache. l.mu must be held.
func (l *Loader) remove(src string) {
	delete(l.assets, src)
	for i, s := range l.order {
		if s == src {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *Loader) decodeSource(ctx context.Context, src string) (image.Image, error) {
	var body []byte
	switch {
	case strings.HasPrefix(src, "data:"):
		b, err := decodeDataURL(src)
		if err != nil {
			return nil, err
		}
		body = b
	case ValidSource(src):
		b, err := l.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		body = b
	default:
		return nil, ErrUnsupportedSource
	}
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// decodeDataURL extracts the payload of a base64 data: URL.
func decodeDataURL(src string) ([]byte, error) {
	_, b, err := ParseDataURL(src)
	return b, err
}

// ParseDataURL splits a base64 data: URL into its media type and payload.
func ParseDataURL(src string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasPrefix(src, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("%w: data URL must be base64 encoded", ErrUnsupportedSource)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URL payload: %w", err)
	}
	mimeType, _, _ := strings.Cut(meta, ";")
	return mimeType, b, nil
}

// DataURL formats an encoded image as a data: URL.
func DataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ValidSource reports whether src is a form Load understands.
func ValidSource(src string) bool {
	return strings.HasPrefix(src, "data:") ||
		strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://")
}
