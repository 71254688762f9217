package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
)

type fakeQuote struct {
	sticks []*quote.Candlestick
	closed int
}

func (q *fakeQuote) Candlesticks(context.Context, string, quote.Period, int32, quote.AdjustType) ([]*quote.Candlestick, error) {
	return q.sticks, nil
}

func (q *fakeQuote) Close() error {
	q.closed++
	return nil
}

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestLongportFetcher_RedialsAfterFailedConnect(t *testing.T) {
	fq := &fakeQuote{sticks: []*quote.Candlestick{
		{Open: dec(10), High: dec(11), Low: dec(9), Close: dec(10.5), Volume: 1000, Timestamp: 1709251200},
		{Open: dec(10.5), High: nil, Low: dec(10), Close: dec(11), Volume: 500, Timestamp: 1709337600},
	}}
	dials := 0
	f := NewLongportFetcher("k", "s", "t")
	f.dial = func() (candleSource, error) {
		dials++
		if dials == 1 {
			return nil, errors.New("dial tcp: i/o timeout")
		}
		return fq, nil
	}

	if _, err := f.FetchDailyBars(context.Background(), "AAPL", 30); err == nil {
		t.Fatal("expected the first connect to fail")
	}
	got, err := f.FetchDailyBars(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("expected a fresh connect to succeed, got %v", err)
	}
	if len(got) != 1 || got[0].Close != 10.5 || got[0].Volume != 1000 {
		t.Errorf("unexpected bars %+v", got)
	}

	if _, err := f.FetchDailyBars(context.Background(), "AAPL", 30); err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}
	if dials != 2 {
		t.Errorf("expected the open connection to be reused, dialed %d times", dials)
	}

	f.Close()
	f.Close()
	if fq.closed != 1 {
		t.Errorf("expected one close, got %d", fq.closed)
	}
}

func TestLongportFetcher_MissingCredentials(t *testing.T) {
	f := NewLongportFetcher("", "", "")
	if _, err := f.FetchDailyBars(context.Background(), "AAPL", 30); err == nil {
		t.Error("expected error without credentials")
	}
}
