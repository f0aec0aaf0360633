package ai

import "testing"

type sample struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"standard json", `{"name": "entropy", "score": 0.8}`},
		{"double encoded", `"{\"name\": \"entropy\", \"score\": 0.8}"`},
		{"unquoted keys", `{name: "entropy", score: 0.8}`},
		{"trailing comma", `{"name": "entropy", "score": 0.8,}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out sample
			if err := UnmarshalFlexible(tt.input, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Name != "entropy" || out.Score != 0.8 {
				t.Fatalf("unexpected result: %+v", out)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrepairable(t *testing.T) {
	var out sample
	if err := UnmarshalFlexible("not json at all", &out); err == nil {
		t.Fatal("expected an error for unrepairable input")
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(&sample{})
	if schema == nil {
		t.Fatal("expected a schema")
	}
}
