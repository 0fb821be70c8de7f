package inspect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanopt/scanopt-go/pkg/inspect"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input   string
		want    inspect.Assignment
		wantErr error
	}{
		{"mode=Gray", inspect.Assignment{Name: "mode", Value: "Gray"}, nil},
		{" resolution = 300", inspect.Assignment{Name: "resolution", Value: " 300"}, nil},
		{"comment=", inspect.Assignment{Name: "comment", Value: ""}, nil},
		{"comment=a=b", inspect.Assignment{Name: "comment", Value: "a=b"}, nil},
		{"", inspect.Assignment{}, inspect.ErrEmptyAssignment},
		{"mode", inspect.Assignment{}, inspect.ErrInvalidAssignment},
		{"=Gray", inspect.Assignment{}, inspect.ErrInvalidAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := inspect.ParseAssignment(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := inspect.ParseAssignments([]string{"mode=Gray", "resolution=300", "mode=Color"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "Color", "resolution": "300"}, got)

	_, err = inspect.ParseAssignments([]string{"mode=Gray", "bogus"})
	assert.ErrorIs(t, err, inspect.ErrInvalidAssignment)
}
