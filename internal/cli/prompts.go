package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"SignalDesk/internal/collector"
)

// PromptForSymbol asks for a ticker or a KRX code.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter a ticker or KRX code (e.g., AAPL, 005930, ^GSPC):",
		Help:    "Numeric codes of up to 6 digits are looked up on the domestic chain",
	}
	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if _, err := collector.NormalizeSymbol(str); err != nil {
			return fmt.Errorf("invalid symbol: use up to 20 letters, digits or . ^ = -")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return collector.NormalizeSymbol(symbol)
}

// PromptForDecision asks which trading action to evaluate.
func PromptForDecision() (string, error) {
	var decision string
	prompt := &survey.Select{
		Message: "Which decision should be evaluated?",
		Options: []string{"buy", "sell"},
		Default: "buy",
	}
	if err := survey.AskOne(prompt, &decision); err != nil {
		return "", err
	}
	return decision, nil
}
