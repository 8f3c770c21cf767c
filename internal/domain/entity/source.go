// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"strings"
)

// SourceType 素材类型
type SourceType string

const (
	// SourceTypeLink 链接素材，内容对后端不可读
	SourceTypeLink SourceType = "link"
	// SourceTypeText 粘贴的文本素材
	SourceTypeText SourceType = "text"
)

// Source 规范化后的单条素材
type Source struct {
	// ID 为提交时的序号（从 1 开始）；空值素材被丢弃后序号不回填，允许出现空洞
	ID    int        `json:"id"`
	Type  SourceType `json:"type"`
	Value string     `json:"value"`
}

// SourceInput 边界层素材输入：既接受裸字符串，也接受 {type,value} 对象。
// 其它 JSON 形态（数字、布尔、嵌套数组等）解析为空值，后续规范化时丢弃。
type SourceInput struct {
	Type  string
	Value string
}

// UnmarshalJSON 实现宽松解析
func (s *SourceInput) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Type = ""
		s.Value = str
		return nil
	}

	var obj struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Type = obj.Type
		s.Value = obj.Value
		return nil
	}

	s.Type = ""
	s.Value = ""
	return nil
}

// SourceList 素材列表；非数组输入解析为空列表
type SourceList []SourceInput

// UnmarshalJSON 实现宽松解析
func (l *SourceList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		*l = nil
		return nil
	}

	var items []SourceInput
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// MissingSourceText 需要用户补贴文本的链接素材说明
type MissingSourceText struct {
	SourceID    int    `json:"sourceId"`
	Reason      string `json:"reason"`
	WhatToPaste string `json:"whatToPaste"`
}
