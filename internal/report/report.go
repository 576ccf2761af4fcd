package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"market-radar-bot/internal/macro"
	"market-radar-bot/internal/types"
)

// printer groups thousands in indicator values, e.g. 40,562.12.
var printer = message.NewPrinter(language.English)

// Glyphs used across both messages.
const (
	glyphUp   = "🟢"
	glyphDown = "🔻"
	glyphFlat = "➖"
)

// Macro formats the macro indicator snapshot as one block per indicator,
// optionally followed by a headlines section.
func Macro(s *macro.Snapshot, headlines []types.Headline) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌍 [Global Markets] %s\n", s.Date))
	sb.WriteString(strings.Repeat("-", 30) + "\n")

	for _, ind := range s.Indicators {
		glyph := glyphFlat
		if ind.ChangePct > 0 {
			glyph = glyphUp
		} else if ind.ChangePct < 0 {
			glyph = glyphDown
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", glyph, ind.Name))
		sb.WriteString(printer.Sprintf("   %.2f (%+.2f%%)\n", ind.Value, ind.ChangePct))
	}

	if len(headlines) > 0 {
		sb.WriteString("\n📰 [Headlines]\n")
		for _, h := range headlines {
			sb.WriteString(fmt.Sprintf("• %s (%s)\n", h.Title, h.Source))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// CapRank formats the market-cap ranking analysis. Short histories are not
// errors: the affected section carries a warm-up placeholder instead.
func CapRank(a types.Analysis) string {
	lines := []string{
		fmt.Sprintf("🇺🇸 [Market Cap Rank Report] %s", a.Date),
		strings.Repeat("=", 30),
	}

	if a.HasDelta {
		lines = append(lines, "", "🏆 [Top 10 Movers]")
		if len(a.TopChanges) > 0 {
			for _, c := range a.TopChanges {
				lines = append(lines, fmt.Sprintf("🔥 %s: #%d → #%d", c.Symbol, c.From, c.To))
			}
		} else {
			lines = append(lines, "   no change")
		}

		lines = append(lines, "", "📅 [Rank 11-30 Movers]")
		if len(a.MidChanges) > 0 {
			for _, c := range a.MidChanges {
				icon := glyphDown
				if c.To < c.From {
					icon = glyphUp
				}
				lines = append(lines, fmt.Sprintf("%s %s: #%d → #%d", icon, c.Symbol, c.From, c.To))
			}
		} else {
			lines = append(lines, "   no change")
		}
	} else {
		lines = append(lines, "   (collecting data: rank analysis starts on day 2)")
	}

	lines = append(lines, "", "🌊 [20-Day Avg Top 30 In/Out]")
	if a.HasMA {
		for _, e := range a.Entrants {
			lines = append(lines, fmt.Sprintf("🚀 [IN] %s (avg rank %d)", e.Symbol, e.AvgRank))
		}
		for _, sym := range a.Exits {
			lines = append(lines, fmt.Sprintf("🍂 [OUT] %s", sym))
		}
		if len(a.Entrants) == 0 && len(a.Exits) == 0 {
			lines = append(lines, "   nothing to report")
		}
	} else {
		lines = append(lines, fmt.Sprintf("   (collecting data: %d/20 days)", a.Rows))
	}

	return strings.Join(lines, "\n")
}

// StageError stands in for a stage's normal report when the whole stage
// failed. The message is still sent so a run never fails silently.
func StageError(stage string, err error) string {
	return fmt.Sprintf("❌ %s failed: %v", stage, err)
}
