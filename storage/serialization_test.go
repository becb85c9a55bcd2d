package storage

import (
	"testing"
	"time"

	"github.com/poiesic/ingrid/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("RM000123")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalIngredient(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name       string
		ingredient *core.Ingredient
	}{
		{
			name: "minimal ingredient",
			ingredient: &core.Ingredient{
				Id:   core.ID(1),
				Code: "RM000001",
			},
		},
		{
			name: "full ingredient",
			ingredient: &core.Ingredient{
				Id:         core.IDFromContent("RM000002"),
				Code:       "RM000002",
				TradeName:  "Aqua Soothe",
				INCIName:   "Sodium Hyaluronate",
				Supplier:   "Siam Chemical Trading",
				Company:    "HyalTech GmbH",
				Cost:       "12500 THB/kg",
				Benefits:   "Deep hydration, plumping effect",
				Details:    "Low molecular weight sodium hyaluronate for serum bases.",
				Category:   "humectant",
				Function:   "moisturizing agent",
				Localized:  map[string]string{core.FieldBenefits: "ให้ความชุ่มชื่นอย่างล้ำลึก"},
				Extra:      map[string]string{"grade": "cosmetic"},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalIngredient(tt.ingredient)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalIngredient(data)
			require.NoError(t, err)
			assert.Equal(t, tt.ingredient, decoded)
		})
	}
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		chunk *core.Chunk
	}{
		{
			name: "minimal chunk",
			chunk: &core.Chunk{
				Id:        core.ID(5),
				Text:      "Code: RM000001",
				Type:      core.ChunkCodeExact,
				Priority:  1.0,
				CharCount: 14,
			},
		},
		{
			name: "chunk with vector and provenance",
			chunk: &core.Chunk{
				Id:           core.IDFromContent("RM000002:descriptive:1"),
				IngredientId: core.IDFromContent("RM000002"),
				Code:         "RM000002",
				Category:     "humectant",
				Text:         "Deep hydration, plumping effect",
				SourceFields: []string{core.FieldBenefits},
				Type:         core.ChunkDescriptive,
				Priority:     0.6,
				CharCount:    31,
				SplitIndex:   1,
				IsSplit:      true,
				Vector:       []float32{0.1, -0.5, 0.25, 0.99},
				InsertedAt:   now,
				UpdatedAt:    now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChunk(tt.chunk)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChunk(data)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk, decoded)
		})
	}
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.Chunk{
		Id:       core.ID(7),
		Text:     "Benefits: brightening",
		Type:     core.ChunkDescriptive,
		Priority: 0.6,
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}

func TestTimeRoundTrip_ZeroValue(t *testing.T) {
	ingredient := &core.Ingredient{Id: core.ID(1), Code: "RM000001"}
	decoded, err := UnmarshalIngredient(MarshalIngredient(ingredient))
	require.NoError(t, err)
	assert.True(t, decoded.InsertedAt.IsZero())
	assert.True(t, decoded.UpdatedAt.IsZero())
}
