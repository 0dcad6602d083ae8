package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "CorrectHorse9!", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Tiny1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper Case", "correcthorse9!", true},
		{"No Lower Case", "CORRECTHORSE9!", true},
		{"No Digit", "CorrectHorse!!", true},
		{"No Symbol", "CorrectHorse99", true},
		{"Accented Letters", "Ólafur-Arnalds7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
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
		{"Valid", "leo_tolstoy42", false},
		{"Too Short", "lt", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Characters", "leo@tolstoy", true},
		{"Leading Hyphen", "-leo", true},
		{"Trailing Underscore", "leo_", true},
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

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "leo@example.com", false},
		{"No At Sign", "not-an-email", true},
		{"Missing Domain", "leo@", true},
		{"Double At Sign", "leo@@example.com", true},
		{"Space In Local Part", "l eo@example.com", true},
		{"Trailing Dot In Domain", "leo@example.com.", true},
		{"Too Long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "cat-lovers", false},
		{"Too Short", "ab", true},
		{"Upper Case", "CatLovers", true},
		{"Leading Hyphen", "-cats", true},
		{"Reserved", "posts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
