package textproc

// functionWords are CJK particles, copulas and connectives used as cut points
// when tokenizing continuous Chinese text. Ordered longest first so multi-rune
// words win over their single-rune prefixes (是一种 before 是).
var functionWords = []string{
	"是一种", "依赖于",
	"属于", "导致", "引起", "需要", "包括", "包含", "类似", "相似",
	"因此", "所以", "以及", "通过", "对于", "其中", "但是", "如果",
	"可以", "没有", "自己", "我们", "他们", "它们", "一个", "这个", "那个",
	"的", "了", "是", "在", "和", "与", "或", "而", "之", "等",
	"被", "将", "把", "从", "到", "对", "由", "用", "为", "很",
	"更", "最", "都", "也", "就", "不", "这", "那", "要", "会",
}

var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		// Chinese (mirrors the function-word set plus common fillers)
		"的", "了", "在", "是", "我", "有", "和", "就", "不", "人", "都", "一", "一个",
		"上", "也", "很", "到", "说", "要", "去", "你", "会", "着", "没有", "看", "好",
		"自己", "这", "那", "它", "他", "她", "们", "个", "中", "而", "之", "与", "或",
		// English
		"the", "a", "an", "and", "or", "but", "is", "are", "was", "were", "be", "been",
		"of", "to", "in", "on", "for", "with", "as", "by", "at", "it", "its", "this",
		"that", "these", "those", "from", "not", "no", "can", "will", "has", "have",
		"had", "do", "does", "did", "which", "what", "who", "when", "where", "how",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the term carries no topical content.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}
