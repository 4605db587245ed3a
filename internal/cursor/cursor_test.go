package cursor

import (
	"encoding/base64"
	"testing"
	"time"

	"bailanysta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	key := Key{CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC), ID: 42}

	token := codec.Encode(key)
	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.True(t, key.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, key.ID, got.ID)
}

func TestCodec_DecodeRejects(t *testing.T) {
	codec := NewCodec("test-secret")
	valid := codec.Encode(Key{CreatedAt: time.Now().UTC(), ID: 7})

	forged := base64.RawURLEncoding.EncodeToString([]byte("v1:1700000000000000:7.bogus"))
	otherSecret := NewCodec("other-secret").Encode(Key{CreatedAt: time.Now().UTC(), ID: 7})

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"no signature", base64.RawURLEncoding.EncodeToString([]byte("v1:1:1"))},
		{"forged signature", forged},
		{"signed by another secret", otherSecret},
		{"truncated", valid[:len(valid)-3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeInvalidCursor))
		})
	}
}

func TestKey_Before(t *testing.T) {
	now := time.Now().UTC()

	assert.True(t, Key{CreatedAt: now.Add(-time.Second), ID: 9}.Before(Key{CreatedAt: now, ID: 1}))
	assert.True(t, Key{CreatedAt: now, ID: 1}.Before(Key{CreatedAt: now, ID: 2}))
	assert.False(t, Key{CreatedAt: now, ID: 2}.Before(Key{CreatedAt: now, ID: 2}))
}
