package domain

// Movie 是一条电影记录：列表页给出 Name/DetailURL/Critic，详情页补全 Audience。
//
// 约束：
// - 同一结果集合内 Name 唯一（区分大小写，按提取到的原文）
// - Audience 在补全之前为 Unavailable；页面没有观众评分时也保持 Unavailable
type Movie struct {
	Name      string `json:"name"`
	DetailURL string `json:"detail_url"`
	Critic    Score  `json:"critic_score"`
	Audience  Score  `json:"audience_score"`
}

// HasBothNumeric 判断该记录能否参与图表（两项评分都是数值）。
func (m Movie) HasBothNumeric() bool {
	return m.Critic.IsNumeric() && m.Audience.IsNumeric()
}
