package models

// InsightReport holds computed analytics over an eligible listing
type InsightReport struct {
	TotalVehicles    int
	EligibleVehicles int
	PricedVehicles   int
	AverageBid       float64
	MinBid           float64
	MaxBid           float64
	MostExpensive    *Vehicle
	Newest           *Vehicle
	VehiclesByMake   map[string]int
}
