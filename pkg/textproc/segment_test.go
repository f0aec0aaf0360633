package textproc

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "chinese terminators",
			input: "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。",
			want:  []string{"机器学习属于人工智能的一个分支", "深度学习是机器学习的重要方法"},
		},
		{
			name:  "latin terminators",
			input: "Neural networks learn. Do they generalize? Sometimes!",
			want:  []string{"Neural networks learn", "Do they generalize", "Sometimes"},
		},
		{
			name:  "newline ends a sentence",
			input: "第一章 绪论\n机器学习改变了软件。",
			want:  []string{"第一章 绪论", "机器学习改变了软件"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only terminators",
			input: "。！？...",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected sentences: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "chinese run split on function words",
			input: "机器学习属于人工智能的一个分支",
			want:  []string{"机器学习", "人工智能", "分支"},
		},
		{
			name:  "copula and particle as cut points",
			input: "深度学习是机器学习的重要方法",
			want:  []string{"深度学习", "机器学习", "方法"},
		},
		{
			name:  "latin lowercased and stop words dropped",
			input: "The Gradient is a Vector",
			want:  []string{"gradient", "vector"},
		},
		{
			name:  "single rune terms dropped",
			input: "a 树 graph",
			want:  []string{"graph"},
		},
		{
			name:  "mixed script",
			input: "使用CNN处理图像",
			want:  []string{"cnn处理图像"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected tokens: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("机器学习", 2); got != "机器" {
		t.Fatalf("unexpected truncation: got %q", got)
	}
	if got := TruncateRunes("short", 10); got != "short" {
		t.Fatalf("truncation should not pad: got %q", got)
	}
}
