package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/models"
	"stockview/utils"
)

func TestInsightsGenerate(t *testing.T) {
	toyota := &models.Vehicle{StockNumber: "A", FinalBid: "$10,000", NewPassed: true, TimestampMillis: ms(5), Fields: models.FieldsOf("Make", "toyota")}
	honda := &models.Vehicle{StockNumber: "B", FinalBid: "$30,000", LegacyPassed: true, TimestampMillis: ms(9), Fields: models.FieldsOf("Make", "Honda")}
	toyota2 := &models.Vehicle{StockNumber: "C", FinalBid: "$20,000", NewPassed: true, Fields: models.FieldsOf("Make", "Toyota")}
	free := &models.Vehicle{StockNumber: "D", FinalBid: "TBD", NewPassed: true}
	ineligible := &models.Vehicle{StockNumber: "E", FinalBid: "N/A", NewPassed: true, Fields: models.FieldsOf("Make", "Ford")}

	report := NewInsightService(utils.NewNopLogger()).Generate([]*models.Vehicle{toyota, honda, toyota2, free, ineligible})

	assert.Equal(t, 5, report.TotalVehicles)
	assert.Equal(t, 4, report.EligibleVehicles)
	assert.Equal(t, 3, report.PricedVehicles)
	assert.InDelta(t, 20000.0, report.AverageBid, 0.001)
	assert.Equal(t, 10000.0, report.MinBid)
	assert.Equal(t, 30000.0, report.MaxBid)
	assert.Same(t, honda, report.MostExpensive)
	assert.Same(t, honda, report.Newest)
	assert.Equal(t, map[string]int{"TOYOTA": 2, "HONDA": 1}, report.VehiclesByMake)
}

func TestInsightsEmpty(t *testing.T) {
	report := NewInsightService(utils.NewNopLogger()).Generate(nil)
	assert.Equal(t, 0, report.TotalVehicles)
	assert.Nil(t, report.MostExpensive)
	assert.NotNil(t, report.VehiclesByMake)
}

func TestPrintInsightReport(t *testing.T) {
	v := &models.Vehicle{StockNumber: "A", Title: "2019 Toyota Camry", FinalBid: "$10,000", NewPassed: true, TimestampMillis: ms(5), Fields: models.FieldsOf("Make", "Toyota")}
	report := NewInsightService(utils.NewNopLogger()).Generate([]*models.Vehicle{v})

	var buf bytes.Buffer
	PrintInsightReport(&buf, report)
	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "TOYOTA")
	assert.Contains(t, out, "2019 Toyota Camry")
}

func TestTruncateAndCenter(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Len(t, []rune(truncate("abcdefghij", 6)), 6)
	assert.Len(t, center("ab", 10), 10)
}
