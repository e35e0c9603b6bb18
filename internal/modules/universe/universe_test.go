package universe

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fiiwatch/internal/domain"
)

type stubRates struct {
	rate float64
	err  error
}

func (s *stubRates) SelicRate(_ context.Context) (float64, error) {
	return s.rate, s.err
}

func TestParseTickers(t *testing.T) {
	entries := ParseTickers(" hglg11, XPLG11 ,,newt11 ")

	require.Len(t, entries, 3)
	assert.Equal(t, "HGLG11", entries[0].Ticker)
	assert.Equal(t, "CSHG Logística", entries[0].Name)
	assert.Equal(t, "XPLG11", entries[1].Ticker)
	assert.Equal(t, "NEWT11", entries[2].Ticker)
	assert.Empty(t, entries[2].Name) // not in the built-in list
}

func TestSnapshot(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	feed := NewFeed(nil, &stubRates{rate: 0.15}, logger)

	snapshot, err := feed.Snapshot(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.15, snapshot.RiskFreeRate, 1e-9)
	require.Len(t, snapshot.Funds, len(DefaultEntries()))

	first := snapshot.Funds[0]
	assert.Equal(t, "HGLG11", first.Ticker)
	assert.Equal(t, Segment, first.Segment)
	assert.InDelta(t, 0.15, first.RiskFreeRate, 1e-9)
	assert.Nil(t, first.Price)
	assert.Nil(t, first.TrailingDividends)
	assert.Equal(t, domain.StatusUndefined, first.Status)
}

func TestSnapshot_RateFailurePropagates(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	feed := NewFeed(nil, &stubRates{err: errors.New("sgs down")}, logger)

	_, err := feed.Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary feed unavailable")
}
