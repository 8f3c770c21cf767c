package entity

// SourceReadiness 素材可用性判定；服务端计算结果优先于模型自述
type SourceReadiness struct {
	SourcesProvided       bool                `json:"sourcesProvided"`
	CanReliablyUseSources bool                `json:"canReliablyUseSources"`
	MessageToUser         string              `json:"messageToUser"`
	MissingSourceText     []MissingSourceText `json:"missingSourceText"`
}

// WhatIGot 模型对各输入维度的理解摘要
type WhatIGot struct {
	TopicUnderstanding    string `json:"topicUnderstanding"`
	AudienceUnderstanding string `json:"audienceUnderstanding"`
	CTAUnderstanding      string `json:"ctaUnderstanding"`
	ToneUnderstanding     string `json:"toneUnderstanding"`
	PlatformUnderstanding string `json:"platformUnderstanding"`
	FormatUnderstanding   string `json:"formatUnderstanding"`
}

// EditorialOption 一个候选编辑方向（A/B/C 之一）
type EditorialOption struct {
	OptionID          string `json:"optionId"`
	Label             string `json:"label"`
	EditorialAngle    string `json:"editorialAngle"`
	Tone              string `json:"tone"`
	Focus             string `json:"focus"`
	HowSourcesAreUsed string `json:"howSourcesAreUsed"`
	ExpectedReaction  string `json:"expectedReaction"`
	CTASuggestion     string `json:"ctaSuggestion"`
}

// Plan Plan 阶段的完整产出
type Plan struct {
	Kind             string            `json:"kind"`
	SourceReadiness  SourceReadiness   `json:"sourceReadiness"`
	WhatIGot         WhatIGot          `json:"whatIGot"`
	EditorialOptions []EditorialOption `json:"editorialOptions"`
}

// DesignElements 视觉设计要素
type DesignElements struct {
	// Headline 不超过 50 字符
	Headline      string `json:"headline"`
	Subheadline   string `json:"subheadline"`
	Layout        string `json:"layout"`
	VisualConcept string `json:"visualConcept"`
}

// GeneratedContent Generate 阶段的最终文案
type GeneratedContent struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Copy  string `json:"copy"`
	// Hashtags 存储不带 # 前缀的裸词
	Hashtags       []string       `json:"hashtags"`
	CTA            string         `json:"cta"`
	DesignElements DesignElements `json:"designElements"`
}
