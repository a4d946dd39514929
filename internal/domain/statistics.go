package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyAverage is the mean of one value over all records in a calendar
// month.
type MonthlyAverage struct {
	Month   time.Month
	Average decimal.Decimal
}

// Statistics holds per-month averages ordered January to December.
type Statistics struct {
	MonthlyBMI    []MonthlyAverage
	MonthlyWeight []MonthlyAverage
}

type monthBucket struct {
	bmiSum    decimal.Decimal
	weightSum decimal.Decimal
	count     int64
}

// AggregateMonthly groups measurements by the month of RecordedAt (in UTC)
// and averages BMI and weight per month. Records from different years that
// share a month land in the same bucket. Records with a zero timestamp, a
// non-positive weight or a negative BMI are ignored.
func AggregateMonthly(records []*Measurement) *Statistics {
	buckets := make(map[time.Month]*monthBucket)

	for _, r := range records {
		if !usableForStatistics(r) {
			continue
		}
		month := r.RecordedAt.UTC().Month()
		b, ok := buckets[month]
		if !ok {
			b = &monthBucket{}
			buckets[month] = b
		}
		b.bmiSum = b.bmiSum.Add(r.BMI)
		b.weightSum = b.weightSum.Add(r.WeightKg)
		b.count++
	}

	months := make([]time.Month, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	stats := &Statistics{
		MonthlyBMI:    make([]MonthlyAverage, 0, len(months)),
		MonthlyWeight: make([]MonthlyAverage, 0, len(months)),
	}
	for _, m := range months {
		b := buckets[m]
		n := decimal.NewFromInt(b.count)
		stats.MonthlyBMI = append(stats.MonthlyBMI, MonthlyAverage{
			Month:   m,
			Average: b.bmiSum.Div(n).Round(BMIPrecision),
		})
		stats.MonthlyWeight = append(stats.MonthlyWeight, MonthlyAverage{
			Month:   m,
			Average: b.weightSum.Div(n).Round(BMIPrecision),
		})
	}

	return stats
}

func usableForStatistics(r *Measurement) bool {
	if r == nil || r.RecordedAt.IsZero() {
		return false
	}
	return r.WeightKg.IsPositive() && !r.BMI.IsNegative()
}
