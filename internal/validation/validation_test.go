package validation

import (
	"strings"
	"testing"

	"bailanysta/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "hello world", "hello world"},
		{"Trims", "  hi  ", "hi"},
		{"Strips Script", `<script>alert(1)</script>hi`, "hi"},
		{"Strips Tags Keeps Text", `<b>bold</b> move`, "bold move"},
		{"Keeps Ampersand", "salt & pepper", "salt & pepper"},
		{"Keeps Unicode", "Сәлем #Қазақ", "Сәлем #Қазақ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestValidatePostText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"Valid", "hello", false},
		{"Empty", "", true},
		{"Exactly Max", strings.Repeat("a", models.MaxPostTextRunes), false},
		{"Too Long", strings.Repeat("a", models.MaxPostTextRunes+1), true},
		{"Multibyte At Max", strings.Repeat("қ", models.MaxPostTextRunes), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostText(tt.text)
			if tt.wantErr {
				assert.True(t, models.IsCode(err, models.CodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Too Short", "tu", true},
		{"Invalid Chars", "user-name", true},
		{"Reserved", "Search", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtractHashtags(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"kazakh", "go_lang"}, ExtractHashtags("I love #Kazakh food and #go_lang, #kazakh!"))
	assert.Equal(t, []string{"алматы"}, ExtractHashtags("Hello from #Алматы"))
	assert.Nil(t, ExtractHashtags("no tags # here"))
}

func TestTokenizeQuery(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"kazakh"}, TokenizeQuery("#kazakh"))
	assert.Equal(t, []string{"kazakh", "food"}, TokenizeQuery("  Kazakh, FOOD #kazakh "))
	assert.Empty(t, TokenizeQuery("   ,,, # "))
	assert.Equal(t, []string{"kazakh", "almaty"}, TokenizeQuery("#kazakh#almaty"))
	assert.Equal(t, []string{"foo", "bar"}, TokenizeQuery("foo#bar"))
	assert.Equal(t, []string{"алматы", "go_lang"}, TokenizeQuery("##Алматы//go_lang"))
}
