package domain

import (
	"fmt"
	"strings"
)

// SortKey 是排序依据。
type SortKey string

const (
	SortCritic       SortKey = "critic"
	SortAudience     SortKey = "audience"
	SortAnticipation SortKey = "anticipation"
)

// ParseSortKey 接受 critic|audience|anticipation（大小写不敏感）。
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortCritic, SortAudience, SortAnticipation:
		return k, nil
	default:
		return "", fmt.Errorf("排序依据只能是 critic、audience 或 anticipation，实际是 %q", s)
	}
}
