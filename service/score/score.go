// Package score computes the composite 0-100 score of an agent.
package score

import (
	"math"
	"time"

	"github.com/b-harvest/agentboard-backend/util"
)

const (
	VolumeWeight      = 0.30
	HoldersWeight     = 0.25
	PerformanceWeight = 0.20
	ActivityWeight    = 0.15
	AgeWeight         = 0.10
)

type Metrics struct {
	Volume24h      float64 // USD
	HolderCount    int64
	PriceChange24h float64 // percent
	TxCount24h     int64
	CreatedAt      time.Time
}

// Result holds the overall score and its components, each rounded to one
// decimal place. Overall is computed from the unrounded components.
type Result struct {
	Overall     float64 `json:"overall"`
	Volume      float64 `json:"volume"`
	Holders     float64 `json:"holders"`
	Performance float64 `json:"performance"`
	Activity    float64 `json:"activity"`
	Age         float64 `json:"age"`
}

// Calculate is a pure function of m and now.
func Calculate(m Metrics, now time.Time) Result {
	volume := logScore(m.Volume24h, 20)
	holders := logScore(float64(m.HolderCount), 33)
	change := m.PriceChange24h
	if math.IsNaN(change) {
		change = 0
	}
	performance := util.Clamp(50+util.Clamp(change, -100, 200)*0.25, 0, 100)
	activity := logScore(float64(m.TxCount24h), 40)
	age := 0.0
	if ageHours := now.Sub(m.CreatedAt).Hours(); ageHours > 0 {
		age = util.Clamp(math.Sqrt(ageHours)*5, 0, 100)
	}
	overall := volume*VolumeWeight +
		holders*HoldersWeight +
		performance*PerformanceWeight +
		activity*ActivityWeight +
		age*AgeWeight
	return Result{
		Overall:     util.Round1(overall),
		Volume:      util.Round1(volume),
		Holders:     util.Round1(holders),
		Performance: util.Round1(performance),
		Activity:    util.Round1(activity),
		Age:         util.Round1(age),
	}
}

func logScore(v, factor float64) float64 {
	if !(v > 0) {
		return 0
	}
	return util.Clamp(math.Log10(v+1)*factor, 0, 100)
}
