package gather

import (
	"errors"
	"testing"
	"time"

	"stratlab/internal/domain"
)

func TestValidateBarsEmpty(t *testing.T) {
	err := ValidateBars("AAPL", nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("ValidateBars(empty) = %v, want ErrNoData", err)
	}
}

func TestValidateBarsOrdering(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []domain.Bar{
		{Timestamp: ts, Open: 1, High: 2, Low: 1, Close: 1.5},
		{Timestamp: ts, Open: 1, High: 2, Low: 1, Close: 1.5}, // duplicate timestamp
	}

	if err := ValidateBars("AAPL", bars); err == nil {
		t.Error("ValidateBars should reject non-increasing timestamps")
	}

	bars[1].Timestamp = ts.AddDate(0, 0, 1)
	if err := ValidateBars("AAPL", bars); err != nil {
		t.Errorf("ValidateBars on ordered bars: %v", err)
	}
}

func TestValidateBarsPrices(t *testing.T) {
	bars := []domain.Bar{
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0, Close: 1.5},
	}
	if err := ValidateBars("AAPL", bars); err == nil {
		t.Error("ValidateBars should reject non-positive prices")
	}
}
