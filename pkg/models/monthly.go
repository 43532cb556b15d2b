package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MonthsPerYear is the number of monthly slots carried by MonthlyValues.
const MonthsPerYear = 12

// MonthlyValues maps month 1..12 to an amount. The fixed array means every
// month is always present and defaults to zero.
type MonthlyValues [MonthsPerYear]float64

// ValidMonth reports whether m is in 1..12.
func ValidMonth(m int) bool {
	return m >= 1 && m <= MonthsPerYear
}

// At returns the value for month m, or 0 when m is out of range.
func (v MonthlyValues) At(m int) float64 {
	if !ValidMonth(m) {
		return 0
	}
	return v[m-1]
}

// With returns a copy of v with month m set to amount. Out-of-range months are ignored.
func (v MonthlyValues) With(m int, amount float64) MonthlyValues {
	if ValidMonth(m) {
		v[m-1] = amount
	}
	return v
}

// Add returns the per-month sum of v and o.
func (v MonthlyValues) Add(o MonthlyValues) MonthlyValues {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// SumThrough sums months 1..end inclusive. Any end outside 1..12 yields 0.
func (v MonthlyValues) SumThrough(end int) float64 {
	if !ValidMonth(end) {
		return 0
	}
	var total float64
	for i := 0; i < end; i++ {
		total += v[i]
	}
	return total
}

// Total sums all twelve months.
func (v MonthlyValues) Total() float64 {
	return v.SumThrough(MonthsPerYear)
}

// MarshalJSON encodes the values as an object keyed "1".."12".
func (v MonthlyValues) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, MonthsPerYear)
	for i, amount := range v {
		out[strconv.Itoa(i+1)] = amount
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the object form written by MarshalJSON. Missing months stay 0.
func (v *MonthlyValues) UnmarshalJSON(data []byte) error {
	var in map[string]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to decode monthly values: %w", err)
	}
	var out MonthlyValues
	for k, amount := range in {
		m, err := strconv.Atoi(k)
		if err != nil || !ValidMonth(m) {
			return fmt.Errorf("invalid month key %q", k)
		}
		out[m-1] = amount
	}
	*v = out
	return nil
}
