package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "RM000123"},
		{name: "empty string", content: ""},
		{name: "thai content", content: "ให้ความชุ่มชื่น"},
		{
			name:    "long content",
			content: "Sodium Hyaluronate is a humectant used for deep hydration in skincare formulations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}

	if IDFromContent("RM000123") == IDFromContent("RM000124") {
		t.Error("IDFromContent() produced the same ID for different content")
	}
}

func TestIngredientMergeKey(t *testing.T) {
	t.Run("stored ID wins", func(t *testing.T) {
		i := &Ingredient{Id: 42, Code: "RM000001"}
		if i.MergeKey() != 42 {
			t.Errorf("MergeKey() = %d, want 42", i.MergeKey())
		}
	})

	t.Run("code hash fallback", func(t *testing.T) {
		i := &Ingredient{Code: "RM000001"}
		if i.MergeKey() != IDFromContent("RM000001") {
			t.Error("MergeKey() did not fall back to code hash")
		}
	})

	t.Run("content hash last resort", func(t *testing.T) {
		a := &Ingredient{TradeName: "Aqua Soothe", INCIName: "Aqua"}
		b := &Ingredient{TradeName: "Aqua Soothe", INCIName: "Aqua"}
		if a.MergeKey() != b.MergeKey() {
			t.Error("MergeKey() not stable for identical content")
		}
		if a.MergeKey() == 0 {
			t.Error("MergeKey() returned zero")
		}
	})
}

func TestStrategyPriority(t *testing.T) {
	order := []Strategy{StrategyExact, StrategyMetadata, StrategyFuzzy, StrategySemantic}
	for i := 0; i < len(order)-1; i++ {
		if order[i].Priority() <= order[i+1].Priority() {
			t.Errorf("expected %s priority > %s priority", order[i], order[i+1])
		}
	}
}

func TestCandidateStrategies(t *testing.T) {
	c := &Candidate{}

	c.AddStrategy(StrategySemantic)
	if c.Hybrid() {
		t.Error("single strategy should not be hybrid")
	}
	if c.StrategyTag() != "semantic" {
		t.Errorf("StrategyTag() = %q, want semantic", c.StrategyTag())
	}

	c.AddStrategy(StrategyFuzzy)
	c.AddStrategy(StrategyFuzzy) // duplicate is ignored
	if len(c.Strategies) != 2 {
		t.Errorf("len(Strategies) = %d, want 2", len(c.Strategies))
	}
	if !c.Hybrid() {
		t.Error("two strategies should be hybrid")
	}
	if c.StrategyTag() != "hybrid" {
		t.Errorf("StrategyTag() = %q, want hybrid", c.StrategyTag())
	}
	if c.BestStrategy() != StrategyFuzzy {
		t.Errorf("BestStrategy() = %s, want fuzzy", c.BestStrategy())
	}

	c.AddStrategy(StrategyExact)
	if c.BestStrategy() != StrategyExact {
		t.Errorf("BestStrategy() = %s, want exact", c.BestStrategy())
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		ingredient Ingredient
		want       string
	}{
		{"trade name preferred", Ingredient{Code: "RM1", TradeName: "Aqua Soothe", INCIName: "Aqua"}, "Aqua Soothe"},
		{"inci fallback", Ingredient{Code: "RM1", INCIName: "Aqua"}, "Aqua"},
		{"code last", Ingredient{Code: "RM1"}, "RM1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ingredient.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
