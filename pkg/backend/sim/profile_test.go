package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanopt/scanopt-go/pkg/option"
)

const tinyProfile = `
name: sim:tiny
vendor: Test
model: Tiny
options:
  - name: mode
    type: string
    strings: [Gray, Color]
  - name: resolution
    type: int
    unit: dpi
    range: {min: 100, max: 400, step: 100}
    default: 200
  - name: lamp
    type: bool
    caps: [soft_detect]
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(tinyProfile))
	require.NoError(t, err)
	assert.Equal(t, "sim:tiny", p.Name)
	require.Len(t, p.Options, 3)
	assert.Equal(t, &option.Range{Min: 100, Max: 400, Step: 100}, p.Options[1].Range)

	b, err := New(p)
	require.NoError(t, err)

	v, _ := b.Value("mode")
	assert.Equal(t, "Gray", v)
	v, _ = b.Value("resolution")
	assert.Equal(t, 200, v)
	v, _ = b.Value("lamp")
	assert.Equal(t, false, v)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyProfile), 0644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", p.Model)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProfileMarshalRoundTrip(t *testing.T) {
	p := DefaultProfile()
	data, err := p.Marshal()
	require.NoError(t, err)

	back, err := ParseProfile(data)
	require.NoError(t, err)
	assert.Equal(t, p.Name, back.Name)
	assert.Len(t, back.Options, len(p.Options))

	_, err = New(back)
	require.NoError(t, err)
}

func TestInvalidProfiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"NoName", "options: []"},
		{"Syntax", "name: [unterminated"},
		{"UnknownType", "name: x\noptions:\n  - name: a\n    type: complex\n"},
		{"UnknownUnit", "name: x\noptions:\n  - name: a\n    type: int\n    unit: furlong\n"},
		{"UnknownCap", "name: x\noptions:\n  - name: a\n    type: int\n    caps: [telepathic]\n"},
		{"Duplicate", "name: x\noptions:\n  - name: a\n    type: int\n  - name: a\n    type: bool\n"},
		{"DanglingCondition", "name: x\noptions:\n  - name: a\n    type: int\n    active_when:\n      - option: b\n        values: [\"1\"]\n"},
		{"BadDefault", "name: x\noptions:\n  - name: a\n    type: int\n    default: many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProfile([]byte(tt.yaml))
			if err == nil {
				_, err = New(p)
			}
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}
