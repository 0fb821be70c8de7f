package interactive

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanopt/scanopt-go/pkg/backend/sim"
	"github.com/scanopt/scanopt-go/pkg/persistence"
	"github.com/scanopt/scanopt-go/pkg/scanner"
)

type testConfig struct{}

func (testConfig) ProfileName() string  { return "flatbed" }
func (testConfig) EventLogPath() string { return "" }

func openShell(t *testing.T) (*Shell, *bytes.Buffer, *scanner.Device, *sim.Backend) {
	t.Helper()
	p, err := sim.Builtin("flatbed")
	require.NoError(t, err)
	b, err := sim.New(p)
	require.NoError(t, err)

	info := scanner.Info{Name: p.Name, Vendor: p.Vendor, Model: p.Model, Type: p.Type}
	dev, err := scanner.Open(info, b, scanner.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	var out bytes.Buffer
	return newShell(dev, testConfig{}, b, &out), &out, dev, b
}

// run executes line and returns what it printed.
func run(s *Shell, out *bytes.Buffer, line string) string {
	out.Reset()
	s.Exec(line)
	return out.String()
}

func TestExecGetSet(t *testing.T) {
	s, out, dev, _ := openShell(t)

	assert.Contains(t, run(s, out, "get mode"), "mode = Color  [Lineart|Gray|Color]")
	assert.Contains(t, run(s, out, "set mode Gray"), "mode = Gray")

	v, ok := dev.GetOptVal("mode")
	assert.True(t, ok)
	assert.Equal(t, "Gray", v)

	t.Run("Abbreviated", func(t *testing.T) {
		assert.Contains(t, run(s, out, "get reso"), "resolution = 300 dpi")
	})

	t.Run("DependentOption", func(t *testing.T) {
		assert.Contains(t, run(s, out, "set threshold 75"), "Error:")
		run(s, out, "set mode Lineart")
		assert.Contains(t, run(s, out, "set threshold 75"), "threshold = 75")
	})

	t.Run("InvalidValue", func(t *testing.T) {
		assert.Contains(t, run(s, out, "set mode Sepia"), "Error:")
	})

	t.Run("UnknownName", func(t *testing.T) {
		assert.Contains(t, run(s, out, "get bogus"), "unknown option")
	})

	t.Run("Usage", func(t *testing.T) {
		assert.Contains(t, run(s, out, "get"), "Usage: get <name>")
		assert.Contains(t, run(s, out, "set mode"), "Usage: set <name> <value>")
	})
}

func TestExecGetAllSetAll(t *testing.T) {
	s, out, dev, _ := openShell(t)

	assert.Contains(t, run(s, out, "getall"), "resolution=300\n")

	assert.Contains(t, run(s, out, "setall mode=Gray resolution=150 bogus=1"), "Applied 2 of 3 values")
	v, _ := dev.GetOptVal("resolution")
	assert.Equal(t, "150", v)

	assert.Contains(t, run(s, out, "setall mode"), "Error:")
}

func TestExecGamma(t *testing.T) {
	s, out, _, b := openShell(t)

	// The table is inactive until custom gamma is enabled.
	assert.Contains(t, run(s, out, "gamma red 10:0:100"), "Error:")

	run(s, out, "set custom-gamma true")
	assert.Contains(t, run(s, out, "gamma red 10:0:100"), "red-gamma-table set from 10:0:100")

	raw, err := b.Value("red-gamma-table")
	require.NoError(t, err)
	table, ok := raw.([]int)
	require.True(t, ok)
	assert.Equal(t, 26, table[0])
	assert.Equal(t, 255, table[len(table)-1])

	assert.Contains(t, run(s, out, "gamma red 1:2"), "Error:")
}

func TestExecPress(t *testing.T) {
	s, out, dev, _ := openShell(t)

	var got []bool
	dev.OnButtonPressed(func(name, label string, pressed bool) {
		if name == "scan" {
			got = append(got, pressed)
		}
	})

	assert.Empty(t, run(s, out, "press scan"))
	assert.Equal(t, []bool{true, false}, got)

	s.presser = nil
	assert.Contains(t, run(s, out, "press scan"), "no simulated buttons")
}

func TestExecGeometry(t *testing.T) {
	s, out, _, _ := openShell(t)

	assert.Contains(t, run(s, out, "select 10 20 100 200"), "Selection: (10, 20) - (100, 200)")
	assert.Contains(t, run(s, out, "select 100 20 10 200"), "Error:")
	assert.Contains(t, run(s, out, "select 10 20 x 200"), "Invalid coordinate: x")

	assert.Contains(t, run(s, out, "preview"), "Preview resolution: 100 dpi")
	assert.Contains(t, run(s, out, "preview 140"), "Preview resolution: 150 dpi")
	assert.Contains(t, run(s, out, "scan preview"), "Preview scan at 150 dpi")
	assert.Contains(t, run(s, out, "scan"), "Scan at 300 dpi")
}

func TestExecInspection(t *testing.T) {
	s, out, _, _ := openShell(t)

	info := run(s, out, "info")
	assert.Contains(t, info, "Device:   sim:flatbed")
	assert.Contains(t, info, "Profile:  flatbed")
	assert.NotContains(t, info, "Event log")

	assert.Contains(t, run(s, out, "list"), "resolution")
	assert.Contains(t, run(s, out, "list all"), "threshold")
	assert.Contains(t, run(s, out, "dump yaml"), "name: sim:flatbed")
	assert.True(t, strings.HasPrefix(run(s, out, "dump"), "sim:flatbed: Simulated Flatbed 4800"))
	assert.Contains(t, run(s, out, "reload"), "Reloaded")
}

func TestExecControl(t *testing.T) {
	s, out, _, _ := openShell(t)

	assert.True(t, s.Exec(""))
	assert.True(t, s.Exec("help"))
	assert.Contains(t, out.String(), "Scanner Option Commands")

	assert.Contains(t, run(s, out, "frobnicate"), "Unknown command: frobnicate")

	for _, cmd := range []string{"exit", "quit", "q", "EXIT"} {
		assert.False(t, s.Exec(cmd), cmd)
	}
}

func TestExecPresets(t *testing.T) {
	s, out, dev, _ := openShell(t)

	assert.Contains(t, run(s, out, "save docs"), "No preset file configured")

	s.SetPresetStore(persistence.NewPresetStore(filepath.Join(t.TempDir(), "presets.json")))
	assert.Contains(t, run(s, out, "presets"), "No presets saved")

	run(s, out, "setall mode=Gray resolution=150")
	assert.Contains(t, run(s, out, "save docs"), "as docs")

	run(s, out, "setall mode=Color resolution=600")
	assert.Contains(t, run(s, out, "load docs"), "from docs")

	v, _ := dev.GetOptVal("mode")
	assert.Equal(t, "Gray", v)
	v, _ = dev.GetOptVal("resolution")
	assert.Equal(t, "150", v)

	assert.Contains(t, run(s, out, "presets"), "  docs\n")
	assert.Contains(t, run(s, out, "load photo"), "preset not found")
	assert.Contains(t, run(s, out, "save"), "Usage: save <preset>")
}
