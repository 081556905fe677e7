// Package anomaly flags fund disbursements whose amounts deviate from
// market rates for the project type.
package anomaly

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// stdDevFraction derives each project type's standard deviation from its
// market rate.
const stdDevFraction = 0.20

// zScoreThreshold marks a transaction suspicious when |z| exceeds it.
const zScoreThreshold = 2.0

// MarketRates maps a project type to its expected cost.
type MarketRates map[string]float64

// DefaultMarketRates returns the built-in market-rate table.
func DefaultMarketRates() MarketRates {
	return MarketRates{
		"Road Construction":  1_000_000,
		"School Building":    2_000_000,
		"Hospital Equipment": 1_500_000,
		"Water Supply":       800_000,
		"Park Development":   500_000,
	}
}

// LoadMarketRates reads a market-rate table from a YAML file.
func LoadMarketRates(path string) (MarketRates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market rates: %w", err)
	}

	var rates MarketRates
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to parse market rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("market rate table is empty")
	}

	return rates, nil
}

// Result describes the outcome of an anomaly check.
type Result struct {
	Message    string  `json:"message"`
	MarketRate float64 `json:"market_rate"`
	ZScore     float64 `json:"z_score"`
	Suspicious bool    `json:"suspicious"`
	Known      bool    `json:"known"`
}

// Detector scores disbursement amounts against market rates.
type Detector struct {
	rates MarketRates
}

// NewDetector creates a detector over the given rate table.
func NewDetector(rates MarketRates) *Detector {
	if rates == nil {
		rates = DefaultMarketRates()
	}
	return &Detector{rates: rates}
}

// Detect computes the z-score of amount against the project type's market
// rate. Unknown project types are not flagged.
func (d *Detector) Detect(projectType string, amount float64) Result {
	rate, ok := d.rates[projectType]
	if !ok || rate == 0 {
		return Result{Message: "unknown project type"}
	}

	stdDev := rate * stdDevFraction
	z := math.Round((amount-rate)/stdDev*100) / 100

	result := Result{
		MarketRate: rate,
		ZScore:     z,
		Known:      true,
	}

	switch {
	case math.Abs(z) <= zScoreThreshold:
		result.Message = "transaction appears normal"
	case amount > rate:
		result.Suspicious = true
		result.Message = "amount significantly higher than market rate"
	default:
		result.Suspicious = true
		result.Message = "amount significantly lower than market rate"
	}

	return result
}

// Rate returns the market rate for a project type, or 0 when unknown.
func (d *Detector) Rate(projectType string) float64 {
	return d.rates[projectType]
}
