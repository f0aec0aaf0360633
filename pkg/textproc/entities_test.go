package textproc

import "testing"

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
		wantType string
	}{
		{
			name:     "person after title",
			input:    "著名教授 张伟 提出了这个观点。",
			wantText: "张伟",
			wantType: EntityPerson,
		},
		{
			name:     "labelled concept",
			input:    "概念：梯度下降 是优化的核心。",
			wantText: "梯度下降",
			wantType: EntityConcept,
		},
		{
			name:     "labelled method",
			input:    "方法：反向传播 用于训练网络。",
			wantText: "反向传播",
			wantType: EntityMethod,
		},
		{
			name:     "decimal number",
			input:    "学习率通常设为0.01比较稳妥。",
			wantText: "0.01",
			wantType: EntityNumber,
		},
		{
			name:     "formula",
			input:    "能量公式 E = mc2 广为人知。",
			wantText: "E = mc2 广为人知",
			wantType: EntityFormula,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := ExtractEntities(tt.input)
			for _, ent := range entities {
				if ent.Text == tt.wantText && ent.Type == tt.wantType {
					if ent.Confidence != ruleConfidence {
						t.Fatalf("unexpected confidence %f", ent.Confidence)
					}
					return
				}
			}
			t.Fatalf("entity %q (%s) not found in %v", tt.wantText, tt.wantType, entities)
		})
	}
}

func TestExtractEntities_NoMatches(t *testing.T) {
	if got := ExtractEntities("平淡的一句话而已。"); len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
}

func TestExtractEntities_MultipleRulesKeepOverlaps(t *testing.T) {
	// The same span may be tagged by several rules; merging happens later.
	entities := ExtractEntities("概念：0.5 是一个阈值。")
	var concept, number bool
	for _, ent := range entities {
		if ent.Type == EntityConcept {
			concept = true
		}
		if ent.Type == EntityNumber {
			number = true
		}
	}
	if !concept || !number {
		t.Fatalf("expected both concept and number tags, got %v", entities)
	}
}
