package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/mTix/internal/model"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    model.SeatTier
		wantErr bool
	}{
		{in: "Premium:10:120", want: model.SeatTier{Name: "Premium", Capacity: 10, Price: 120}},
		{in: "Standard:50:59.5", want: model.SeatTier{Name: "Standard", Capacity: 50, Price: 59.5}},
		{in: "Premium:10", wantErr: true},
		{in: ":10:120", wantErr: true},
		{in: "Premium:ten:120", wantErr: true},
		{in: "Premium:10:free", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTier(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tixerror.HasCode(err, tixerror.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	n, err := parseCount("15", "seats")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	_, err = parseCount("many", "seats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seats must be a number")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Berlin", truncate("Berlin", 10))
	assert.Equal(t, "Waldbü...", truncate("Waldbühne Berlin", 10))
	assert.Equal(t, "Philharmonie", truncate("Philharmonie", 12))
}
