package pretty_test

import (
	"bytes"
	"io"
	"os"
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/internal/ui/pretty"
)

// eachStyle calls fn with the name and value of every style in s.
func eachStyle(t *testing.T, s *pretty.Styles, fn func(name string, style lipgloss.Style)) {
	t.Helper()
	v := reflect.ValueOf(s).Elem()
	for i := range v.NumField() {
		style, ok := v.Field(i).Interface().(lipgloss.Style)
		require.True(t, ok, "field %s is not a style", v.Type().Field(i).Name)
		fn(v.Type().Field(i).Name, style)
	}
}

func TestNewStyles_ColorDisabledRendersPlain(t *testing.T) {
	t.Parallel()

	eachStyle(t, pretty.NewStyles(false), func(name string, style lipgloss.Style) {
		assert.Equal(t, "<h1> \"x\"", style.Render("<h1> \"x\""), "%s adds formatting", name)
	})
}

func TestNewStyles_ColorEnabledKeepsText(t *testing.T) {
	t.Parallel()

	// Lipgloss drops ANSI codes when no terminal is detected, so only the
	// text itself can be checked here.
	eachStyle(t, pretty.NewStyles(true), func(name string, style lipgloss.Style) {
		assert.Contains(t, style.Render("node"), "node", name)
	})
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode   string
		writer io.Writer
		want   bool
	}{
		{mode: "always", writer: &bytes.Buffer{}, want: true},
		{mode: "never", writer: os.Stdout, want: false},
		{mode: "auto", writer: &bytes.Buffer{}, want: false},
		{mode: "", writer: &bytes.Buffer{}, want: false},
		{mode: "sometimes", writer: &bytes.Buffer{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pretty.IsColorEnabled(tt.mode, tt.writer))
		})
	}
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout), "NO_COLOR wins over a terminal")
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout), "always ignores NO_COLOR")
}
