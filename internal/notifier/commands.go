package notifier

import (
	"context"
	"log"
	"strings"
	"time"

	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
)

// Analyzer is what the bot needs from the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, decision string) (*model.Analysis, error)
	Config() *config.Config
}

// Bot answers chat commands with analyses.
type Bot struct {
	analyzer Analyzer
	timeout  time.Duration
}

// NewBot creates a command bot. timeout bounds a single /analyze.
func NewBot(analyzer Analyzer, timeout time.Duration) *Bot {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bot{analyzer: analyzer, timeout: timeout}
}

// HandleCommand processes a user command and returns a reply.
func (b *Bot) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	// "/analyze@SignalDeskBot" in group chats
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}

	switch name {
	case "/analyze", "/a":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL [buy|sell]"
		}
		symbol := fields[1]
		decision := ""
		if len(fields) > 2 {
			decision = fields[2]
		}
		actx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		a, err := b.analyzer.Analyze(actx, symbol, decision)
		if err != nil {
			log.Printf("[WARN] bot analyze %s: %v", symbol, err)
			return FormatError(symbol, err)
		}
		return FormatSignalReport(a)
	case "/config":
		return FormatConfig(b.analyzer.Config())
	default:
		return helpText
	}
}
