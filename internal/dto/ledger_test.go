package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestListLedgerRowsParams_ToFilterIncludesFromDate(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	filter := ListLedgerRowsParams{AccountID: "A100", From: &from, To: &to, Limit: 50}.ToFilter()

	require.NotNil(t, filter.From)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *filter.From)
	assert.Equal(t, 50, filter.Limit)

	row := func(day int) domain.GeneralLedgerRow {
		return domain.GeneralLedgerRow{AccountID: "A100", PostingDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)}
	}
	assert.True(t, filter.Matches(row(1)), "rows on the from date are listed")
	assert.True(t, filter.Matches(row(31)), "rows on the to date are listed")
	assert.False(t, filter.Matches(domain.GeneralLedgerRow{AccountID: "A100", PostingDate: from.AddDate(0, 0, -1)}))
}

func TestListLedgerRowsParams_ToFilterWithoutBounds(t *testing.T) {
	filter := ListLedgerRowsParams{Limit: 100}.ToFilter()
	assert.Nil(t, filter.From)
	assert.Nil(t, filter.To)
}
