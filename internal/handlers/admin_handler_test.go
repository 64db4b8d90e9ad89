package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillMonthlySeries_Empty(t *testing.T) {
	series := fillMonthlySeries(nil)

	assert.Len(t, series, 12)
	for month, value := range series {
		assert.Zerof(t, value, "month %d should be zero", month+1)
	}
}

func TestFillMonthlySeries_MapsCalendarMonths(t *testing.T) {
	series := fillMonthlySeries([]monthlyRow{
		{Month: 1, Value: 5},
		{Month: 6, Value: 12},
		{Month: 12, Value: 3},
	})

	assert.Equal(t, int64(5), series[0])
	assert.Equal(t, int64(12), series[5])
	assert.Equal(t, int64(3), series[11])
	assert.Equal(t, int64(0), series[1])
	assert.Equal(t, int64(0), series[10])
}

func TestFillMonthlySeries_IgnoresOutOfRangeMonths(t *testing.T) {
	series := fillMonthlySeries([]monthlyRow{
		{Month: 0, Value: 7},
		{Month: 13, Value: 9},
		{Month: -1, Value: 4},
	})

	for _, value := range series {
		assert.Zero(t, value)
	}
}
