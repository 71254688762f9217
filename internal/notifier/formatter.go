package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
)

// levelIcon picks the marker shown next to the recommendation.
func levelIcon(sig model.SignalResult) string {
	if !sig.Recommendation.Accepted() {
		return "⚪"
	}
	switch sig.Level {
	case model.LevelVeryStrong:
		return "🟢🟢"
	case model.LevelStrong:
		return "🟢"
	default:
		return "🟡"
	}
}

// FormatSignalReport formats an analysis into a Telegram HTML message.
func FormatSignalReport(a *model.Analysis) string {
	sig := a.Signal
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s requested\n", html.EscapeString(a.Symbol), sig.Decision))
	b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s)\n\n", levelIcon(sig), sig.Recommendation, html.EscapeString(sig.Strength)))

	b.WriteString(fmt.Sprintf("Score: %d / threshold %.0f\n", sig.Score, sig.Thresholds.Min))
	b.WriteString(fmt.Sprintf("CCI: %.1f | RSI: %.1f | OBV: %.0f\n", a.Indicators.CCI, a.Indicators.RSI, a.Indicators.OBVScore))

	b.WriteString("\n📈 <b>Reasons:</b>\n")
	for _, r := range sig.Reasons {
		b.WriteString("  • " + html.EscapeString(r) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n<i>%s, %d rows, last %s</i>", html.EscapeString(a.Source), a.Rows, a.LastDate))
	return b.String()
}

// FormatConfig formats the active scoring setup for display.
func FormatConfig(cfg *config.Config) string {
	sc := cfg.Scoring
	p := cfg.IndicatorParams()
	var b strings.Builder
	b.WriteString("⚙️ <b>Scoring config</b>\n\n")
	b.WriteString(fmt.Sprintf("Weights: CCI %.2f | RSI %.2f | OBV %.2f\n", sc.Weights.CCI, sc.Weights.RSI, sc.Weights.OBV))
	b.WriteString(fmt.Sprintf("BUY ≥ %.0f | SELL ≥ %.0f | max %.0f\n",
		sc.Threshold(model.DecisionBuy), sc.Threshold(model.DecisionSell), sc.MaxThreshold))
	b.WriteString(fmt.Sprintf("Profile: %s (CCI %d, RSI %d, OBV lag %d, std %d)\n",
		cfg.Indicators.Profile, p.CCIWindow, p.RSIPeriod, p.OBVLag, p.OBVStdWindow))
	return b.String()
}

// FormatError turns an analysis failure into a short reply.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

const helpText = "Available commands:\n" +
	"• /analyze SYMBOL [buy|sell]\n" +
	"• /config\n" +
	"• /help"
