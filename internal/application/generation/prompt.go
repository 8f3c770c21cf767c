package generation

import (
	"fmt"
	"strings"

	"content-agent-api/internal/domain/entity"
	"content-agent-api/internal/domain/service"
)

// Prompt 一对 system/user 消息
type Prompt struct {
	System string
	User   string
}

// promptInput 两个阶段共享的提示词要素
type promptInput struct {
	Topic          string
	Audience       string
	CTADesired     string
	Platform       string
	Format         string
	Characteristic string
	Sources        []entity.Source
}

func orNotProvided(s string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return "(not provided)"
}

// BuildPlanPrompt 构造 Plan 阶段提示词：提出三个差异明显的编辑方向，不写终稿
func BuildPlanPrompt(in promptInput, canReliablyUseSources bool) Prompt {
	system := strings.Join([]string{
		"You are an editor-in-chief and content strategist.",
		"Your task in this phase is to PROPOSE DIRECTION, not to write the final post.",
		"You must respect the provided sources. If a source is not readable (e.g. a bare link), do not invent its content.",
		"Return ONLY valid JSON conforming to the requested schema.",
	}, " ")

	user := fmt.Sprintf(`PHASE: PLAN (propose 3 options A/B/C)

TOPIC: %s
PLATFORM: %s
FORMAT: %s
TONE/PROFILE: %s

TARGET AUDIENCE: %s
DESIRED CTA: %s

SOURCES:
%s

SYSTEM SIGNAL:
- canReliablyUseSources = %t

Important rules:
- NEVER invent specific content from links.
- Even without readable sources, you can propose 3 editorial paths based on topic, platform, format, audience and tone.
- The 3 options must be clearly different from each other.
- Say explicitly how the sources would be used if they were pasted as text (or ask for the text to be pasted).`,
		strings.TrimSpace(in.Topic),
		in.Platform,
		in.Format,
		in.Characteristic,
		orNotProvided(in.Audience),
		orNotProvided(in.CTADesired),
		service.SourcesToText(in.Sources),
		canReliablyUseSources,
	)

	return Prompt{System: system, User: user}
}

// BuildGeneratePrompt 构造 Generate 阶段提示词。
// customDirection 非空时覆盖所选选项。
func BuildGeneratePrompt(in promptInput, selectedOption, customDirection string) Prompt {
	system := strings.Join([]string{
		"You are a content-creation agent with editorial rigor.",
		"Respect platform and format. Produce direct, useful copy with good cadence and no filler.",
		"If readable sources were provided (pasted text), use them as factual grounding. Do not invent facts.",
		"If sources conflict, make the conflict explicit (do not force consensus).",
		"Always return ONLY valid JSON conforming to the requested schema.",
	}, " ")

	cta := strings.TrimSpace(in.CTADesired)
	if cta == "" {
		cta = "(not provided; propose an appropriate CTA)"
	}

	var direction string
	if strings.TrimSpace(customDirection) != "" {
		direction = "DIRECTION CHOSEN BY THE USER (override):\n" + strings.TrimSpace(customDirection)
	} else {
		direction = "CHOSEN DIRECTION (A/B/C):\n" + strings.TrimSpace(selectedOption)
	}

	user := fmt.Sprintf(`PHASE: GENERATE (produce the final content)

TOPIC: %s
PLATFORM: %s
FORMAT: %s
TONE/PROFILE: %s

TARGET AUDIENCE: %s
DESIRED CTA: %s

%s

SOURCES (use as grounding, do not invent factual data):
%s

Rules:
- If a source is a link, treat it as a reference and do not invent its specific content.
- Hashtags: 6 to 12, without the # character (bare words only).
- Short headline (<= 50 characters).`,
		strings.TrimSpace(in.Topic),
		in.Platform,
		in.Format,
		in.Characteristic,
		orNotProvided(in.Audience),
		cta,
		direction,
		service.SourcesToText(in.Sources),
	)

	return Prompt{System: system, User: user}
}
