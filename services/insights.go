package services

import (
	"strings"

	"stockview/models"
	"stockview/utils"
)

// InsightService computes analytics over a listing
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes bid statistics and make counts over the eligible subset of vehicles
func (s *InsightService) Generate(vehicles []*models.Vehicle) *models.InsightReport {
	report := &models.InsightReport{
		TotalVehicles:  len(vehicles),
		VehiclesByMake: make(map[string]int),
	}

	if len(vehicles) == 0 {
		s.logger.Warn("No vehicles to generate insights from")
		return report
	}

	var totalBid float64
	for _, v := range vehicles {
		if !Eligible(v) {
			continue
		}
		report.EligibleVehicles++

		// Bid stats
		if bid := ParseBid(v.FinalBid); bid > 0 {
			report.PricedVehicles++
			totalBid += bid
			if bid < report.MinBid || report.MinBid == 0 {
				report.MinBid = bid
			}
			if bid > report.MaxBid {
				report.MaxBid = bid
				report.MostExpensive = v
			}
		}

		// Newest
		if v.TimestampMillis != nil && (report.Newest == nil || *v.TimestampMillis > *report.Newest.TimestampMillis) {
			report.Newest = v
		}

		// Make count
		if mk := strings.TrimSpace(v.Fields.Value("Make")); mk != "" {
			report.VehiclesByMake[strings.ToUpper(mk)]++
		}
	}

	if report.PricedVehicles > 0 {
		report.AverageBid = totalBid / float64(report.PricedVehicles)
	}

	return report
}
