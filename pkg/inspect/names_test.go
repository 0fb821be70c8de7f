package inspect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scanopt/scanopt-go/pkg/inspect"
)

func TestResolveName(t *testing.T) {
	names := []string{"mode", "resolution", "red-gamma-table", "green-gamma-table", "br-x", "br-y", "Scan", "scan-area"}

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{"mode", "mode", nil},
		{"MODE", "mode", nil},
		{"res", "resolution", nil},
		{"red", "red-gamma-table", nil},
		{"Scan", "Scan", nil},
		{"scan", "Scan", nil},
		{"br", "", inspect.ErrAmbiguousName},
		{"gamma", "", inspect.ErrUnknownName},
		{"", "", inspect.ErrUnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := inspect.ResolveName(names, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompleteName(t *testing.T) {
	names := []string{"br-x", "br-y", "brightness", "mode"}
	assert.Equal(t, []string{"br-x", "br-y", "brightness"}, inspect.CompleteName(names, "br"))
	assert.Equal(t, []string{"mode"}, inspect.CompleteName(names, "M"))
	assert.Empty(t, inspect.CompleteName(names, "x"))
}
