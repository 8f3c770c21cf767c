// Package service 提供无状态的领域服务
package service

import (
	"fmt"
	"regexp"
	"strings"

	"content-agent-api/internal/domain/entity"
)

// DefaultReadableTextMinChars 判定文本素材可直接引用的最小字符数
const DefaultReadableTextMinChars = 60

var urlPattern = regexp.MustCompile(`(?i)^https?://\S+`)

// IsProbablyURL 判断字符串是否形如 HTTP(S) 链接
func IsProbablyURL(s string) bool {
	return urlPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeSources 将边界层素材输入规范化为有序素材列表。
// 序号按提交顺序从 1 开始；空值素材在编号之后被剔除，因此序号允许出现空洞。
// 类型解析顺序：显式 link/url -> link；显式 text -> text；否则按链接形态推断。
func NormalizeSources(inputs []entity.SourceInput) []entity.Source {
	out := make([]entity.Source, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Value) == "" {
			continue
		}

		var typ entity.SourceType
		switch in.Type {
		case "link", "url":
			typ = entity.SourceTypeLink
		case "text":
			typ = entity.SourceTypeText
		default:
			if IsProbablyURL(in.Value) {
				typ = entity.SourceTypeLink
			} else {
				typ = entity.SourceTypeText
			}
		}

		out = append(out, entity.Source{
			ID:    i + 1,
			Type:  typ,
			Value: in.Value,
		})
	}
	return out
}

// SourcesToText 将素材渲染为提示词中的编号列表
func SourcesToText(sources []entity.Source) string {
	if len(sources) == 0 {
		return "No sources provided."
	}

	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		lines = append(lines, fmt.Sprintf("%d. (%s) %s", s.ID, s.Type, s.Value))
	}
	return strings.Join(lines, "\n")
}

// ReadinessResult 素材可用性判定结果
type ReadinessResult struct {
	// CanUseReliably 没有素材，或存在足够长的文本素材时为 true
	CanUseReliably bool
	// HasOnlyLinksNoText 存在链接素材且没有任何合格文本素材
	HasOnlyLinksNoText bool
	// Missing 当 HasOnlyLinksNoText 为 true 时，列出每条需要补贴文本的链接
	Missing []entity.MissingSourceText
}

// EvaluateReadiness 判定素材是否足以支撑事实性生成。
// minChars <= 0 时使用 DefaultReadableTextMinChars。
func EvaluateReadiness(sources []entity.Source, minChars int) ReadinessResult {
	if minChars <= 0 {
		minChars = DefaultReadableTextMinChars
	}

	hasText := false
	hasLinks := false
	for _, s := range sources {
		switch s.Type {
		case entity.SourceTypeText:
			if len(strings.TrimSpace(s.Value)) >= minChars {
				hasText = true
			}
		case entity.SourceTypeLink:
			hasLinks = true
		}
	}

	res := ReadinessResult{
		CanUseReliably:     len(sources) == 0 || hasText,
		HasOnlyLinksNoText: hasLinks && !hasText,
		Missing:            []entity.MissingSourceText{},
	}

	if res.HasOnlyLinksNoText {
		for _, s := range sources {
			if s.Type != entity.SourceTypeLink {
				continue
			}
			res.Missing = append(res.Missing, entity.MissingSourceText{
				SourceID:    s.ID,
				Reason:      "link not readable for precise analysis",
				WhatToPaste: "paste the main excerpt of the source",
			})
		}
	}

	return res
}
