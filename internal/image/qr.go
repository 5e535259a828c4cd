package imagepkg

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	minShareSize = 64
	maxShareSize = 1024
)

// ShareCode returns PNG bytes of a QR code pointing at url, so a design can
// be opened on a phone. size is clamped to a sane range.
func ShareCode(url string, size int) ([]byte, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.PNG(clampInt(size, minShareSize, maxShareSize))
}
