package domain

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ScoreKind 区分评分的三种形态。零值即 Unavailable。
type ScoreKind int

const (
	ScoreUnavailable ScoreKind = iota
	ScoreNumeric
	ScoreText
)

// Score 是“数值 | 原文 | 缺失”的闭合标签值。
//
// 约束：
// - Numeric 的 Value 来自页面上的百分比（通常在 [0,100]，但不做截断）
// - Text 保留页面原文（例如 "Coming soon"、"want to see"），不会被当作错误
// - Unavailable 表示页面上根本没有该字段（或尚未补全）
type Score struct {
	Kind  ScoreKind
	Value int
	Text  string
}

func Numeric(v int) Score       { return Score{Kind: ScoreNumeric, Value: v} }
func Text(s string) Score       { return Score{Kind: ScoreText, Text: s} }
func Unavailable() Score        { return Score{} }
func (s Score) IsNumeric() bool { return s.Kind == ScoreNumeric }
func (s Score) IsText() bool    { return s.Kind == ScoreText }

// IsAnticipation 判断是否为“想看”类的观众标记（非数值、包含 want）。
func (s Score) IsAnticipation() bool {
	return s.IsText() && strings.Contains(strings.ToLower(s.Text), "want")
}

// IsLiked 判断是否为“喜欢”类的观众标记（非数值、包含 liked）。
func (s Score) IsLiked() bool {
	return s.IsText() && strings.Contains(strings.ToLower(s.Text), "liked")
}

func (s Score) String() string {
	switch s.Kind {
	case ScoreNumeric:
		return strconv.Itoa(s.Value)
	case ScoreText:
		return s.Text
	default:
		return "N/A"
	}
}

// ParseCriticScore 解析列表页上的影评人评分标记。
// 以 "%" 结尾且前缀是整数 => Numeric；空串 => Unavailable；其余保留原文。
func ParseCriticScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unavailable()
	}
	if strings.HasSuffix(raw, "%") {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(raw, "%"))); err == nil {
			return Numeric(n)
		}
	}
	return Text(raw)
}

// ParseAudienceScore 解析详情页 metadata 中的观众评分。
// 含 "%" 时取第一个 "%" 之前的部分按整数解析（"72% liked it" => 72）。
func ParseAudienceScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unavailable()
	}
	if i := strings.Index(raw, "%"); i != -1 {
		if n, err := strconv.Atoi(strings.TrimSpace(raw[:i])); err == nil {
			return Numeric(n)
		}
	}
	return Text(raw)
}

// Compare 给出“按原始字段降序”时使用的全序：Numeric > Text > Unavailable，
// 同类内数值按大小、原文按字典序比较。返回 -1/0/1。
func Compare(a, b Score) int {
	if a.Kind != b.Kind {
		if rank(a.Kind) < rank(b.Kind) {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case ScoreNumeric:
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
	case ScoreText:
		return strings.Compare(a.Text, b.Text)
	}
	return 0
}

func rank(k ScoreKind) int {
	switch k {
	case ScoreNumeric:
		return 2
	case ScoreText:
		return 1
	default:
		return 0
	}
}

// MarshalJSON：Numeric => number，Text => string，Unavailable => null。
func (s Score) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ScoreNumeric:
		return json.Marshal(s.Value)
	case ScoreText:
		return json.Marshal(s.Text)
	default:
		return []byte("null"), nil
	}
}

func (s *Score) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = Unavailable()
	case float64:
		*s = Numeric(int(x))
	case string:
		*s = Text(x)
	default:
		*s = Text(string(b))
	}
	return nil
}
