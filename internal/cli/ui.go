package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(14)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// RenderSignal draws a signal panel bordered in the signal's own color.
func RenderSignal(title string, sig model.SignalResult) string {
	color := lipgloss.Color(sig.Color)
	verdict := lipgloss.NewStyle().Bold(true).Foreground(color).Render(string(sig.Recommendation))

	lines := []string{
		titleStyle.Render(title),
		row("Verdict", verdict),
		row("Score", fmt.Sprintf("%d (raw %.2f, threshold %.0f)", sig.Score, sig.RawScore, sig.Thresholds.Min)),
		row("Strength", sig.Strength),
		row("Components", fmt.Sprintf("CCI %.1f | RSI %.1f | OBV %.1f",
			sig.Components["CCI"], sig.Components["RSI"], sig.Components["OBV"])),
		row("Reason", strings.Join(sig.Reasons, " / ")),
	}
	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	return panel.Render(strings.Join(lines, "\n"))
}

// RenderAnalysis draws the indicator block followed by the signal panel.
func RenderAnalysis(a *model.Analysis) string {
	ind := a.Indicators
	head := strings.Join([]string{
		row("Data", fmt.Sprintf("%s, %d rows, last %s", a.Source, a.Rows, a.LastDate)),
		row("Indicators", fmt.Sprintf("CCI %.2f | RSI %.2f | OBV trend %.2f | OBV score %.1f",
			ind.CCI, ind.RSI, ind.OBVTrend, ind.OBVScore)),
	}, "\n")
	return head + "\n" + RenderSignal(fmt.Sprintf("%s · %s", a.Symbol, a.Signal.Decision), a.Signal)
}

// RenderConfig lists the scoring setup.
func RenderConfig(cfg *config.Config) string {
	sc := cfg.Scoring
	p := cfg.IndicatorParams()
	return strings.Join([]string{
		titleStyle.Render("SignalDesk configuration"),
		row("Weights", fmt.Sprintf("CCI %.2f | RSI %.2f | OBV %.2f", sc.Weights.CCI, sc.Weights.RSI, sc.Weights.OBV)),
		row("Thresholds", fmt.Sprintf("BUY %.0f | SELL %.0f | max %.0f", sc.BuyThreshold, sc.SellThreshold, sc.MaxThreshold)),
		row("Profile", fmt.Sprintf("%s (CCI %d, RSI %d, OBV lag %d, std %d)",
			cfg.Indicators.Profile, p.CCIWindow, p.RSIPeriod, p.OBVLag, p.OBVStdWindow)),
		row("History", fmt.Sprintf("%d days", cfg.Indicators.Days)),
	}, "\n")
}

// DisplayError formats an error line.
func DisplayError(err error) string {
	return errorStyle.Render("❌ " + err.Error())
}

// DisplaySuccess formats a success line.
func DisplaySuccess(message string) string {
	return successStyle.Render("✅ " + message)
}
