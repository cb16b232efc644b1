// Package parse 步驟與食材文字的欄位解析：時間、溫度、食材行。
package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"recipe-assistant/internal/core/recipe"
)

const fracTail = `(?:\s+\d+/\d+|/\d+|\s*[½⅓¼¾⅔⅛⅜⅝⅞])?`

// spacedFracTail 範圍上限不接受緊貼的 /n，"1-1/2 hours" 不是範圍
const spacedFracTail = `(?:\s+\d+/\d+|\s*[½⅓¼¾⅔⅛⅜⅝⅞])?`

var (
	reTimeRange = regexp.MustCompile(`(?i)(\d+` + fracTail + `)\s*(?:-|to|–|—)\s*(\d+` + spacedFracTail + `)\s*(hours?|hrs?|hr|h|minutes?|mins?|min|m|seconds?|secs?|sec|s)\b`)
	reTimeCombo = regexp.MustCompile(`(?i)(\d+` + fracTail + `)\s*(?:hours?|hrs?|hr|h)\s*(?:and|,)?\s*(\d+` + fracTail + `)\s*(?:minutes?|mins?|min|m)\b`)
	reHours     = regexp.MustCompile(`(?i)(\d+` + fracTail + `)\s*(?:hours?|hrs?|hr|h)\b`)
	reMinutes   = regexp.MustCompile(`(?i)(\d+` + fracTail + `)\s*(?:minutes?|mins?|min|m)\b`)
	reSeconds   = regexp.MustCompile(`(?i)(\d+` + fracTail + `)\s*(?:seconds?|secs?|sec|s)\b`)

	rePerSide  = regexp.MustCompile(`(?i)\bper\s+side\b`)
	reAtLeast  = regexp.MustCompile(`(?i)\b(?:at\s+least|minimum(?: of)?)\b`)
	reAtMost   = regexp.MustCompile(`(?i)\b(?:at\s+most|no\s+more\s+than|maximum(?: of)?)\b`)
	reApprox   = regexp.MustCompile(`(?i)\b(?:about|around|approximately|approx\.?)`)
	reDoneCues = regexp.MustCompile(`(?i)\buntil\b[^.]+`)

	vulgarFractions = map[rune]string{
		'½': "1/2", '⅓': "1/3", '¼': "1/4", '¾': "3/4", '⅔': "2/3",
		'⅛': "1/8", '⅜': "3/8", '⅝': "5/8", '⅞': "7/8",
	}
)

// NormalizeFraction 將 unicode 分數轉為 a/b，緊接整數時補空白（1½ -> 1 1/2）
func NormalizeFraction(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if frac, ok := vulgarFractions[r]; ok {
			if prev >= '0' && prev <= '9' {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// ParseNumber 解析整數、小數、分數與帶分數，失敗回傳 false
func ParseNumber(num string) (float64, bool) {
	num = strings.TrimSpace(NormalizeFraction(num))
	num = strings.Join(strings.Fields(num), " ")
	if num == "" {
		return 0, false
	}
	if whole, frac, ok := strings.Cut(num, " "); ok && strings.Contains(frac, "/") {
		w, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return 0, false
		}
		f, ok := parseFraction(frac)
		if !ok {
			return 0, false
		}
		return w + f, true
	}
	if strings.Contains(num, "/") {
		return parseFraction(num)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFraction(s string) (float64, bool) {
	n, d, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	nv, err1 := strconv.ParseFloat(strings.TrimSpace(n), 64)
	dv, err2 := strconv.ParseFloat(strings.TrimSpace(d), 64)
	if err1 != nil || err2 != nil || dv == 0 {
		return 0, false
	}
	return nv / dv, true
}

func unitMinutes(unit string) float64 {
	switch strings.ToLower(unit)[0] {
	case 'h':
		return 60
	case 's':
		return 1.0 / 60
	default:
		return 1
	}
}

// timeAggregate 以分鐘累計所有提及的最小與最大值
type timeAggregate struct {
	set      bool
	min, max float64
}

func (a *timeAggregate) add(lo, hi float64) {
	if !a.set {
		a.min, a.max, a.set = lo, hi, true
		return
	}
	a.min = math.Min(a.min, lo)
	a.max = math.Max(a.max, hi)
}

// ParseTime 解析步驟描述中的時間。
// 依序處理範圍、時+分、單獨的時/分/秒，已匹配的文字不重複計算；
// qualifier 只標註在 mention 上。
// 沒有任何時間與 "until ..." 提示時回傳 nil。
func ParseTime(text string) *recipe.TimeInfo {
	info := &recipe.TimeInfo{Mentions: []recipe.TimeMention{}}
	perSide := rePerSide.MatchString(text)
	approx := reApprox.MatchString(text)
	atLeast := reAtLeast.MatchString(text)
	atMost := reAtMost.MatchString(text)

	var agg timeAggregate
	var taken [][]int

	// 後面的 pattern 不重複計算已被前面 pattern 吃掉的文字
	claim := func(loc []int) bool {
		for _, t := range taken {
			if loc[0] < t[1] && t[0] < loc[1] {
				return false
			}
		}
		taken = append(taken, loc[:2])
		return true
	}

	for _, loc := range reTimeRange.FindAllStringSubmatchIndex(text, -1) {
		claim(loc)
		a, _ := ParseNumber(text[loc[2]:loc[3]])
		b, _ := ParseNumber(text[loc[4]:loc[5]])
		mult := unitMinutes(text[loc[6]:loc[7]])
		lo, hi := a*mult, b*mult
		info.Mentions = append(info.Mentions, recipe.TimeMention{
			Text: text[loc[0]:loc[1]], MinSeconds: int(math.Round(lo * 60)), MaxSeconds: int(math.Round(hi * 60)), PerSide: perSide,
		})
		agg.add(lo, hi)
	}

	for _, loc := range reTimeCombo.FindAllStringSubmatchIndex(text, -1) {
		if !claim(loc) {
			continue
		}
		h, _ := ParseNumber(text[loc[2]:loc[3]])
		mm, _ := ParseNumber(text[loc[4]:loc[5]])
		minutes := h*60 + mm
		secs := int(math.Round(minutes * 60))
		info.Mentions = append(info.Mentions, recipe.TimeMention{
			Text: text[loc[0]:loc[1]], MinSeconds: secs, MaxSeconds: secs, PerSide: perSide,
		})
		agg.add(minutes, minutes)
	}

	single := func(re *regexp.Regexp, toMinutes float64) {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if !claim(loc) {
				continue
			}
			v, _ := ParseNumber(text[loc[2]:loc[3]])
			minutes := v * toMinutes
			secs := int(math.Round(minutes * 60))
			info.Mentions = append(info.Mentions, recipe.TimeMention{
				Text: text[loc[0]:loc[1]], MinSeconds: secs, MaxSeconds: secs,
				Approx: approx, PerSide: perSide, AtLeast: atLeast, AtMost: atMost,
			})
			agg.add(minutes, minutes)
		}
	}
	single(reHours, 60)
	single(reMinutes, 1)
	single(reSeconds, 1.0/60)

	for _, m := range reDoneCues.FindAllString(text, -1) {
		info.Qualitative = append(info.Qualitative, strings.TrimSpace(m))
	}

	switch {
	case agg.set:
		info.MinSeconds = int(math.Round(agg.min * 60))
		info.MaxSeconds = int(math.Round(agg.max * 60))
		if info.MinSeconds == info.MaxSeconds {
			info.Duration = FormatDuration(info.MinSeconds)
		} else {
			info.Duration = FormatDuration(info.MinSeconds) + "–" + FormatDuration(info.MaxSeconds)
		}
	case len(info.Qualitative) > 0:
		info.Duration = info.Qualitative[0]
	default:
		return nil
	}
	return info
}

// FormatDuration 秒數轉為 "H hr M min" / "M min" / "S sec"
func FormatDuration(sec int) string {
	m, s := sec/60, sec%60
	h, m := m/60, m%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hr %d min", h, m)
	case h > 0:
		return fmt.Sprintf("%d hr", h)
	case m > 0:
		return fmt.Sprintf("%d min", m)
	default:
		return fmt.Sprintf("%d sec", s)
	}
}
