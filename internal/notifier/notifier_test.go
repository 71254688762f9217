package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
	"SignalDesk/internal/strategy"
)

type stubAnalyzer struct {
	err   error
	calls []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, symbol, decision string) (*model.Analysis, error) {
	s.calls = append(s.calls, symbol+"|"+decision)
	if s.err != nil {
		return nil, s.err
	}
	ind := model.IndicatorSnapshot{CCI: -150, RSI: 20, OBVScore: 90}
	return &model.Analysis{
		Symbol:     symbol,
		Source:     "naver",
		Rows:       120,
		LastDate:   "2024-04-09",
		Indicators: ind,
		Signal:     strategy.Generate(ind, model.DecisionBuy, strategy.DefaultScoring()),
	}, nil
}

func (s *stubAnalyzer) Config() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring = strategy.DefaultScoring()
	cfg.Indicators.Profile = "standard"
	return cfg
}

func TestHandleCommand(t *testing.T) {
	sa := &stubAnalyzer{}
	bot := NewBot(sa, 0)

	tests := []struct {
		command string
		want    string
	}{
		{"/analyze 005930 buy", "VERY_STRONG"},
		{"/analyze@SignalDeskBot AAPL", "<b>AAPL</b>"},
		{"/analyze", "Usage:"},
		{"/config", "Profile: standard"},
		{"/help", "/analyze SYMBOL"},
		{"hello", "Available commands"},
	}
	for _, tc := range tests {
		t.Run(tc.command, func(t *testing.T) {
			got := bot.HandleCommand(context.Background(), tc.command)
			if !strings.Contains(got, tc.want) {
				t.Errorf("reply %q does not contain %q", got, tc.want)
			}
		})
	}
	if len(sa.calls) != 2 || sa.calls[0] != "005930|buy" || sa.calls[1] != "AAPL|" {
		t.Errorf("unexpected analyzer calls %v", sa.calls)
	}
}

func TestHandleCommand_Error(t *testing.T) {
	bot := NewBot(&stubAnalyzer{err: errors.New("no data <upstream>")}, 0)
	got := bot.HandleCommand(context.Background(), "/analyze ZZZ")
	if !strings.Contains(got, "❌") || !strings.Contains(got, "&lt;upstream&gt;") {
		t.Errorf("expected escaped error reply, got %q", got)
	}
}

func TestFormatSignalReport(t *testing.T) {
	a, _ := (&stubAnalyzer{}).Analyze(context.Background(), "A&B", "buy")
	report := FormatSignalReport(a)
	for _, want := range []string{"A&amp;B", "BUY", "Very strong", "CCI oversold", "RSI oversold (≤30)", "naver, 120 rows, last 2024-04-09"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestPollOnce(t *testing.T) {
	var mu sync.Mutex
	var sent []map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "7" {
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"message":{"text":"/help","chat":{"id":42}}},
			{"update_id":8,"message":{"text":"/help","chat":{"id":99}}},
			{"update_id":9}
		]}`))
	})
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		sent = append(sent, payload)
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	bot := NewBot(&stubAnalyzer{}, 0)

	next, err := tn.pollOnce(context.Background(), srv.Client(), 7, 0, bot.HandleCommand)
	if err != nil {
		t.Fatalf("pollOnce: %v", err)
	}
	if next != 10 {
		t.Errorf("expected next offset 10, got %d", next)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 1 {
		t.Fatalf("expected one reply to the configured chat, got %d", len(sent))
	}
	if sent[0]["chat_id"] != "42" || sent[0]["parse_mode"] != "HTML" || !strings.Contains(sent[0]["text"], "/config") {
		t.Errorf("unexpected reply payload %v", sent[0])
	}
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("bad", "1", "")
	tn.APIBase = srv.URL
	err := tn.Send(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status error, got %v", err)
	}
}
