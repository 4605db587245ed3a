// Package cursor encodes feed positions as opaque, tamper-evident tokens.
//
// A cursor names the last item a client has seen, as its (created_at, id)
// sort key. Clients must treat the token as opaque; only this package reads it.
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bailanysta/internal/models"
)

const version = "v1"

var (
	errMalformed = errors.New("malformed cursor")
	errSignature = errors.New("cursor signature mismatch")
	errVersion   = errors.New("unsupported cursor version")
)

// Key is a position in the (created_at DESC, id DESC) feed order.
type Key struct {
	CreatedAt time.Time
	ID        uint
}

// Before reports whether k sorts strictly after other in feed order,
// i.e. k is older than other.
func (k Key) Before(other Key) bool {
	if k.CreatedAt.Equal(other.CreatedAt) {
		return k.ID < other.ID
	}
	return k.CreatedAt.Before(other.CreatedAt)
}

// KeyOf returns the sort key of a post.
func KeyOf(p *models.Post) Key {
	return Key{CreatedAt: p.CreatedAt, ID: p.ID}
}

// Codec signs and verifies cursors with a shared secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode returns the opaque token for k.
func (c *Codec) Encode(k Key) string {
	payload := fmt.Sprintf("%s:%d:%d", version, k.CreatedAt.UTC().UnixMicro(), k.ID)
	sig := c.sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + "." + sig))
}

// Decode parses a token produced by Encode. Any failure is reported as an
// INVALID_CURSOR application error.
func (c *Codec) Decode(token string) (Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Key{}, models.NewInvalidCursorError(errMalformed)
	}

	payload, sig, ok := strings.Cut(string(raw), ".")
	if !ok {
		return Key{}, models.NewInvalidCursorError(errMalformed)
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return Key{}, models.NewInvalidCursorError(errSignature)
	}

	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return Key{}, models.NewInvalidCursorError(errMalformed)
	}
	if parts[0] != version {
		return Key{}, models.NewInvalidCursorError(errVersion)
	}

	micros, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Key{}, models.NewInvalidCursorError(errMalformed)
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || id == 0 {
		return Key{}, models.NewInvalidCursorError(errMalformed)
	}

	return Key{CreatedAt: time.UnixMicro(micros).UTC(), ID: uint(id)}, nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
