package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-assistant/internal/core/recipe"
)

var (
	reFahrenheit = regexp.MustCompile(`(?i)(\d{2,3})\s*°?\s*(?:degrees?\s*)?F\b`)
	reCelsius    = regexp.MustCompile(`(?i)(\d{2,3})\s*°?\s*(?:degrees?\s*)?C\b`)
	reBothScales = regexp.MustCompile(`(?i)(\d{2,3})\s*°?\s*(?:degrees?\s*)?F\s*\(\s*(\d{2,3})\s*°?\s*C\s*\)`)
	reStovetop   = regexp.MustCompile(`(?i)\b(low|medium|high|medium-low|medium-high)\s+heat\b`)
	rePreheat    = regexp.MustCompile(`(?i)\b(?:preheat|heat)\s+(?:the\s+)?oven\s+(?:to|at)\b`)
	reOvenVerb   = regexp.MustCompile(`(?i)\b(?:bake|roast|broil)\b`)
)

const (
	deviceOven     = "oven"
	deviceStovetop = "stovetop"
	fromContext    = "(from context)"
)

// OvenSetting 已知的烤箱溫度，0 表示該刻度未提及
type OvenSetting struct {
	F         int  `json:"F,omitempty"`
	C         int  `json:"C,omitempty"`
	Preheated bool `json:"preheated"`
}

// TemperatureContext 跨步驟傳遞的溫度狀態
type TemperatureContext struct {
	Oven *OvenSetting `json:"oven,omitempty"`
}

// Merge 套用單一步驟的更新；更新中有烤箱溫度時整組取代
func (c *TemperatureContext) Merge(update TemperatureContext) {
	if update.Oven != nil {
		oven := *update.Oven
		c.Oven = &oven
	}
}

// ParseTemperature 解析步驟溫度，回傳溫度資訊（無則 nil）與 context 更新。
// 只有在出現 bake/roast/broil 且本步驟沒有烤箱溫度時才沿用 context。
func ParseTemperature(text string, ctx TemperatureContext) (*recipe.TemperatureInfo, TemperatureContext) {
	info := &recipe.TemperatureInfo{Mentions: []recipe.TemperatureMention{}}
	var update TemperatureContext
	preheated := rePreheat.MatchString(text)

	if m := reBothScales.FindStringSubmatch(text); m != nil {
		f, _ := strconv.Atoi(m[1])
		c, _ := strconv.Atoi(m[2])
		info.Mentions = append(info.Mentions,
			recipe.TemperatureMention{Text: m[0], Value: f, Unit: "F", Device: deviceOven},
			recipe.TemperatureMention{Text: m[0], Value: c, Unit: "C", Device: deviceOven},
		)
		info.Oven = ovenString(f, "F")
		update.Oven = &OvenSetting{F: f, C: c, Preheated: preheated}
	} else {
		if m := reFahrenheit.FindStringSubmatch(text); m != nil {
			v, _ := strconv.Atoi(m[1])
			info.Mentions = append(info.Mentions, recipe.TemperatureMention{Text: m[0], Value: v, Unit: "F", Device: deviceOven})
			info.Oven = ovenString(v, "F")
			update.Oven = &OvenSetting{F: v, Preheated: preheated}
		}
		if m := reCelsius.FindStringSubmatch(text); m != nil {
			v, _ := strconv.Atoi(m[1])
			info.Mentions = append(info.Mentions, recipe.TemperatureMention{Text: m[0], Value: v, Unit: "C", Device: deviceOven})
			if info.Oven == "" {
				info.Oven = ovenString(v, "C")
			}
			if update.Oven == nil {
				update.Oven = &OvenSetting{Preheated: preheated}
			}
			update.Oven.C = v
		}
	}

	if m := reStovetop.FindStringSubmatch(text); m != nil {
		level := strings.ToLower(m[1]) + " heat"
		info.Mentions = append(info.Mentions, recipe.TemperatureMention{Text: m[0], Qualitative: level, Device: deviceStovetop})
		info.Stovetop = level
	}

	if info.Oven == "" && ctx.Oven != nil && reOvenVerb.MatchString(text) {
		switch {
		case ctx.Oven.F > 0:
			info.Oven = ovenString(ctx.Oven.F, "F")
			info.Mentions = append(info.Mentions, recipe.TemperatureMention{Text: fromContext, Value: ctx.Oven.F, Unit: "F", Device: deviceOven})
		case ctx.Oven.C > 0:
			info.Oven = ovenString(ctx.Oven.C, "C")
			info.Mentions = append(info.Mentions, recipe.TemperatureMention{Text: fromContext, Value: ctx.Oven.C, Unit: "C", Device: deviceOven})
		}
	}

	if len(info.Mentions) == 0 {
		return nil, update
	}
	return info, update
}

func ovenString(v int, unit string) string {
	return fmt.Sprintf("%d %s", v, unit)
}
