package awards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"honor-sync/feature/honors/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{"Golden Geek", "Kennerspiel des Jahres", "Kinderspiel des Jahres", "Spiel des Jahres"}, reg.Names())

	a, ok := reg.Lookup("  spiel   DES jahres ")
	require.True(t, ok)
	assert.Equal(t, "Spiel des Jahres", a.Name)
	assert.Equal(t, "boardgamegeek", a.Source)
	assert.NotEmpty(t, a.Exclude())
	assert.NotEmpty(t, a.Winner())

	caps := a.Caps()
	assert.Equal(t, 1, caps.Winner)
	assert.Equal(t, 5, caps.Special)
	assert.Equal(t, 0, caps.NomineeCap(1980))
	assert.Equal(t, 5, caps.NomineeCap(1995))
	assert.Equal(t, 3, caps.NomineeCap(2024))

	gg, ok := reg.Lookup("Golden Geek Awards")
	require.True(t, ok)
	assert.Equal(t, "Golden Geek", gg.Name)
	assert.Equal(t, resolve.Unlimited, gg.Caps().Special)
	assert.Equal(t, "Category Winner", gg.SpecialLabel())
}

func TestAward_Matches(t *testing.T) {
	a, _ := Default().Lookup("Golden Geek")
	assert.True(t, a.Matches("golden geek award"))
	assert.False(t, a.Matches("Spiel des Jahres"))
}

func TestLoad_Defaults(t *testing.T) {
	reg, err := Load(strings.NewReader(`
awards:
  - name: Test Award
    patterns:
      nominee: [nominee]
`))
	require.NoError(t, err)
	a, ok := reg.Lookup("test award")
	require.True(t, ok)
	assert.Equal(t, resolve.DefaultCaps(), a.Caps())
	assert.Equal(t, "Recommended", a.SpecialLabel())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"empty", "awards: []", "no awards"},
		{"bad regex", "awards:\n  - name: X\n    patterns:\n      winner: ['(']", "winner"},
		{"duplicate", "awards:\n  - name: X\n  - name: x", "defined twice"},
		{"unknown field", "awards:\n  - name: X\n    colour: red", "failed to parse"},
		{"no name", "awards:\n  - source: y", "without a name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestOpen(t *testing.T) {
	reg, err := Open("")
	require.NoError(t, err)
	assert.Len(t, reg.All(), 4)

	path := filepath.Join(t.TempDir(), "awards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("awards:\n  - name: Only\n"), 0o644))
	reg, err = Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, reg.Names())

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
