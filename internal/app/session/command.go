package session

import (
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// Command 是交互循环识别的指令（大写形式）。
type Command string

const (
	CmdAudience     Command = "AUDIENCE"
	CmdCritic       Command = "CRITIC"
	CmdAnticipation Command = "ANTICIPATION"
	CmdPlot         Command = "PLOT"
	CmdQuit         Command = "QUIT"
)

var commands = []Command{CmdAudience, CmdCritic, CmdAnticipation, CmdPlot, CmdQuit}

// hintThreshold 是给出“是否想输入”提示的最低 Jaro-Winkler 相似度。
const hintThreshold = 0.8

var upper = cases.Upper(language.Und)

// ParseCommand 按不区分大小写的方式识别指令；首尾空白会被忽略。
func ParseCommand(input string) (Command, bool) {
	c := Command(upper.String(strings.TrimSpace(input)))
	for _, known := range commands {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Suggest 返回与 input 最接近的指令；没有足够接近的则返回 false。
func Suggest(input string) (Command, bool) {
	s := upper.String(strings.TrimSpace(input))
	if s == "" {
		return "", false
	}
	best, bestScore := Command(""), 0.0
	for _, c := range commands {
		if score := matchr.JaroWinkler(s, string(c), false); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < hintThreshold {
		return "", false
	}
	return best, true
}

// sortKey 把排序类指令映射到排序键。
func (c Command) sortKey() (domain.SortKey, bool) {
	switch c {
	case CmdAudience:
		return domain.SortAudience, true
	case CmdCritic:
		return domain.SortCritic, true
	case CmdAnticipation:
		return domain.SortAnticipation, true
	default:
		return "", false
	}
}
