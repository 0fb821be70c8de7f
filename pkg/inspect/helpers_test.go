package inspect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanopt/scanopt-go/pkg/backend/sim"
	"github.com/scanopt/scanopt-go/pkg/option"
	"github.com/scanopt/scanopt-go/pkg/scanner"
)

func openFlatbed(t *testing.T) *scanner.Device {
	t.Helper()
	p := sim.DefaultProfile()
	b, err := sim.New(p)
	require.NoError(t, err)
	dev, err := scanner.Open(scanner.Info{Name: p.Name, Vendor: p.Vendor, Model: p.Model, Type: p.Type}, b, scanner.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func optionOf(t *testing.T, dev *scanner.Device, name string) *option.Option {
	t.Helper()
	var o *option.Option
	dev.View(func(r *option.Registry) {
		o, _ = r.Option(name)
	})
	require.NotNil(t, o, name)
	return o
}

func optionsOf(t *testing.T, dev *scanner.Device, names ...string) []*option.Option {
	t.Helper()
	out := make([]*option.Option, len(names))
	for i, n := range names {
		out[i] = optionOf(t, dev, n)
	}
	return out
}
