package domain

import "time"

// Snapshot 是一次运行抓取到的内存快照（对外 JSON 输出的稳定结构）。
type Snapshot struct {
	SiteRoot   string    `json:"site_root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	SortedBy   SortKey   `json:"sorted_by,omitempty"`
	Movies     []Movie   `json:"movies"`
}

// Finalize 统一时间为 UTC，并保证 Movies 序列化为 [] 而不是 null。
func (s *Snapshot) Finalize() {
	s.StartedAt = s.StartedAt.UTC()
	s.FinishedAt = s.FinishedAt.UTC()
	if s.Movies == nil {
		s.Movies = []Movie{}
	}
}
