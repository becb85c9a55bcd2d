package core

import (
	"errors"
	"testing"
)

func TestValidateIngredient(t *testing.T) {
	tests := []struct {
		name       string
		ingredient *Ingredient
		wantErr    error
	}{
		{
			name:       "valid minimal",
			ingredient: &Ingredient{Code: "RM000001"},
		},
		{
			name: "valid full",
			ingredient: &Ingredient{
				Code:      "RM000001",
				TradeName: "Aqua Soothe",
				INCIName:  "Sodium Hyaluronate",
				Cost:      "1200 THB/kg",
				Localized: map[string]string{FieldTradeName: "อควา ซูท"},
			},
		},
		{
			name:       "nil ingredient",
			ingredient: nil,
			wantErr:    ErrInvalidIngredient,
		},
		{
			name:       "empty code",
			ingredient: &Ingredient{TradeName: "Aqua Soothe"},
			wantErr:    ErrEmptyCode,
		},
		{
			name: "unknown localized field",
			ingredient: &Ingredient{
				Code:      "RM000001",
				Localized: map[string]string{"brand_story": "..."},
			},
			wantErr: ErrInvalidLocalizedField,
		},
		{
			name:       "negative numeric cost",
			ingredient: &Ingredient{Code: "RM000001", Cost: "-5"},
			wantErr:    ErrNegativeCost,
		},
		{
			name:       "non-numeric cost is fine",
			ingredient: &Ingredient{Code: "RM000001", Cost: "on request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngredient(tt.ingredient)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIngredient() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIngredient() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid",
			chunk: &Chunk{Text: "Code: RM000001", Type: ChunkCodeExact, Priority: 1.0},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{Type: ChunkCodeExact, Priority: 1.0},
			wantErr: ErrEmptyChunkText,
		},
		{
			name:    "unknown type",
			chunk:   &Chunk{Text: "x", Type: ChunkType(99), Priority: 0.5},
			wantErr: ErrInvalidChunkType,
		},
		{
			name:    "priority above one",
			chunk:   &Chunk{Text: "x", Type: ChunkDescriptive, Priority: 1.5},
			wantErr: ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNumericCost(t *testing.T) {
	tests := []struct {
		cost   string
		want   float64
		wantOk bool
	}{
		{"1200 THB/kg", 1200, true},
		{"45.50", 45.50, true},
		{"-5", -5, true},
		{"on request", 0, false},
		{"", 0, false},
		{"  980 USD ", 980, true},
	}

	for _, tt := range tests {
		t.Run(tt.cost, func(t *testing.T) {
			got, ok := NumericCost(tt.cost)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("NumericCost(%q) = %v, %v; want %v, %v", tt.cost, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
