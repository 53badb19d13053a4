package core

import (
	"math"
	"strconv"
	"time"
)

// MaxBucketPrice is the effective upper bound of the open top bucket
// (2^53-1, the largest integer a JSON number carries exactly).
const MaxBucketPrice = int64(1<<53 - 1)

// Statistics summarizes a month.
//
// TotalSoldItems counts every row of the month, priced or not, and
// TotalNotSoldItems counts the rows without a price, so the two overlap.
type Statistics struct {
	TotalSaleAmount   float64 `json:"totalSaleAmount"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

// PriceBucket is one inclusive histogram range.
type PriceBucket struct {
	Min int64
	Max int64
}

// Label renders the bucket as "min-max".
func (b PriceBucket) Label() string {
	return strconv.FormatInt(b.Min, 10) + "-" + strconv.FormatInt(b.Max, 10)
}

// RangeCount is one histogram bar.
type RangeCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// CategoryCount is one pie chart slice.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Combined bundles the results of every report for one month.
type Combined struct {
	InitializeData   IngestResult    `json:"initializeData"`
	TransactionsData []Transaction   `json:"transactionsData"`
	StatisticsData   Statistics      `json:"statisticsData"`
	BarChartData     []RangeCount    `json:"barChartData"`
	PieChartData     []CategoryCount `json:"pieChartData"`
}

// IngestResult acknowledges a completed load.
type IngestResult struct {
	Message  string        `json:"message"`
	Inserted int           `json:"inserted"`
	Source   string        `json:"-"`
	Duration time.Duration `json:"-"`
}

// PriceBuckets returns the ten fixed histogram ranges in ascending order:
// 0-100, 101-200, ..., 801-900, 901-MaxBucketPrice.
func PriceBuckets() []PriceBucket {
	buckets := make([]PriceBucket, 0, 10)
	buckets = append(buckets, PriceBucket{Min: 0, Max: 100})
	for lo := int64(101); lo <= 801; lo += 100 {
		buckets = append(buckets, PriceBucket{Min: lo, Max: lo + 99})
	}
	buckets = append(buckets, PriceBucket{Min: 901, Max: MaxBucketPrice})
	return buckets
}

// Bounds returns the SQL comparison bounds for bucket i of buckets.
// The first bucket is closed on both ends; every other bucket starts right
// after the previous bucket's max so fractional prices such as 100.5 are not
// lost between two integer ranges. This differs from a plain inclusive
// [Min, Max] match, which would drop 100.5 and 900.5 from every bucket.
func Bounds(buckets []PriceBucket, i int) (lower float64, lowerInclusive bool, upper float64) {
	if i == 0 {
		return float64(buckets[0].Min), true, float64(buckets[0].Max)
	}
	return float64(buckets[i-1].Max), false, float64(buckets[i].Max)
}

// Contains reports whether price falls in bucket i under the Bounds rules.
func Contains(buckets []PriceBucket, i int, price float64) bool {
	if math.IsNaN(price) {
		return false
	}
	lo, inclusive, hi := Bounds(buckets, i)
	if price > hi {
		return false
	}
	if inclusive {
		return price >= lo
	}
	return price > lo
}
