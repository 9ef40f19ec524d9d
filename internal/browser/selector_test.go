package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Selector
	}{
		{
			name: "single css",
			raw:  "#login",
			want: []Selector{{CSS: "#login"}},
		},
		{
			name: "css list stays together",
			raw:  `input[type="email"], input[type="text"],input[name*="user"]`,
			want: []Selector{{CSS: `input[type="email"], input[type="text"], input[name*="user"]`}},
		},
		{
			name: "comma inside attribute value",
			raw:  `[data-label="a, b"], button`,
			want: []Selector{{CSS: `[data-label="a, b"], button`}},
		},
		{
			name: "has-text parts become alternatives",
			raw:  `button[type="submit"], input[type="submit"], button:has-text("login"), button:has-text("sign in")`,
			want: []Selector{
				{CSS: `button[type="submit"], input[type="submit"]`},
				{CSS: "button", Text: "login"},
				{CSS: "button", Text: "sign in"},
			},
		},
		{
			name: "has-text without base and single quotes",
			raw:  `:has-text('Next')`,
			want: []Selector{{CSS: "*", Text: "Next"}},
		},
		{
			name: "unquoted text with comma in parentheses",
			raw:  `a:has-text(Hello, world)`,
			want: []Selector{{CSS: "a", Text: "Hello, world"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelector(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelector_Errors(t *testing.T) {
	for _, raw := range []string{"", " , ", `button:has-text("login"`, `button:has-text("")`} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseSelector(raw)
			assert.Error(t, err)
		})
	}
}

func TestSelectorRegex(t *testing.T) {
	assert.Equal(t, "/sign in/i", Selector{Text: "sign in"}.Regex())
	assert.Equal(t, `/a\.b\/c/i`, Selector{Text: "a.b/c"}.Regex())
}
