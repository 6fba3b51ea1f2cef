package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "bed", input: "bed", want: ID{Kind: KindBed}},
		{name: "chamber", input: "chamber", want: ID{Kind: KindChamber}},
		{name: "first tool", input: "tool0", want: ID{Kind: KindTool, Tool: 0}},
		{name: "high tool index", input: "tool12", want: ID{Kind: KindTool, Tool: 12}},
		{name: "custom", input: "cu0", want: ID{Kind: KindCustom, Custom: "cu0"}},
		{name: "custom high index", input: "cu42", want: ID{Kind: KindCustom, Custom: "cu42"}},
		{name: "bare custom prefix", input: "cu", wantErr: true},
		{name: "bare tool prefix", input: "tool", wantErr: true},
		{name: "negative tool", input: "tool-1", wantErr: true},
		{name: "unknown id", input: "enclosure", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDString_RoundTrip(t *testing.T) {
	for _, key := range []string{"bed", "chamber", "tool0", "tool7", "cu0", "cu13"} {
		assert.Equal(t, key, MustParseID(key).String())
	}
}

func TestIDDisplayName(t *testing.T) {
	assert.Equal(t, "Bed", MustParseID("bed").DisplayName())
	assert.Equal(t, "Chamber", MustParseID("chamber").DisplayName())
	assert.Equal(t, "Tool 3", MustParseID("tool3").DisplayName())
	assert.Equal(t, "cu2", MustParseID("cu2").DisplayName())
}

func TestCustomIndex(t *testing.T) {
	assert.Equal(t, 0, MustParseID("cu0").CustomIndex())
	assert.Equal(t, 11, MustParseID("cu11").CustomIndex())
	assert.Equal(t, -1, MustParseID("bed").CustomIndex())
	assert.Equal(t, -1, CustomID("cuX").CustomIndex())
}

func TestIsCustom(t *testing.T) {
	assert.True(t, MustParseID("cu0").IsCustom())
	assert.False(t, MustParseID("tool0").IsCustom())
	assert.False(t, MustParseID("bed").IsCustom())
}
