// Package analytics reduces jurisdiction-scoped collections into
// dashboard-ready figures. Every function here is deterministic and
// side-effect free; scope decisions happen before data arrives and are
// never re-derived here.
package analytics

import (
	"time"

	"go.uber.org/zap"

	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
)

// Summary is the headline revenue rollup for a scoped set.
// Revenue counts paid collections only; pending ones contribute to
// PendingCount/PendingAmount instead.
type Summary struct {
	Revenue       int64 `json:"revenue"`
	PaidCount     int   `json:"paid_count"`
	PendingCount  int   `json:"pending_count"`
	PendingAmount int64 `json:"pending_amount"`
	Skipped       int   `json:"skipped,omitempty"`
}

// MonthBucket is one point of a monthly revenue trend.
type MonthBucket struct {
	Month   string `json:"month"` // YYYY-MM
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// RankedGroup is one row of a top-N ranking.
type RankedGroup struct {
	Key     string `json:"key"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// Share is one category's slice of a distribution.
type Share struct {
	Key     string  `json:"key"`
	Revenue int64   `json:"revenue"`
	Percent float64 `json:"percent"`
}

// valid rejects records that must not poison an aggregate: negative
// amounts and, when dates matter, zero dates. Invalid records are
// skipped and counted, never fatal.
func valid(c collectiondomain.Collection, needDate bool) bool {
	if c.Amount < 0 {
		return false
	}
	if needDate && c.Date.IsZero() {
		return false
	}
	return true
}

// Totals sums paid amounts and counts pending validations over the
// scoped set. Malformed records are tallied in Skipped and logged at
// Warn when a logger is supplied.
func Totals(cols []collectiondomain.Collection, log *zap.Logger) Summary {
	var s Summary
	for _, c := range cols {
		if !valid(c, false) {
			s.Skipped++
			warnSkipped(log, c)
			continue
		}
		switch c.Status {
		case collectiondomain.CollectionStatusPaid:
			s.Revenue += c.Amount
			s.PaidCount++
		case collectiondomain.CollectionStatusPending:
			s.PendingCount++
			s.PendingAmount += c.Amount
		}
	}
	return s
}

// MonthlyTrend buckets paid revenue by calendar month of Collection.Date
// over the trailing window ending at now. Months with no collections
// still appear zero-filled so chart axes stay stable.
func MonthlyTrend(cols []collectiondomain.Collection, months int, now time.Time, log *zap.Logger) []MonthBucket {
	if months <= 0 {
		return nil
	}

	type cell struct {
		revenue int64
		count   int
	}
	series := make([]cell, months)
	labels := make([]string, months)
	index := make(map[string]int, months)

	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		month := anchor.AddDate(0, i-(months-1), 0)
		label := month.Format("2006-01")
		labels[i] = label
		index[label] = i
	}

	for _, c := range cols {
		if !valid(c, true) {
			warnSkipped(log, c)
			continue
		}
		if c.Status != collectiondomain.CollectionStatusPaid {
			continue
		}
		i, ok := index[c.Date.UTC().Format("2006-01")]
		if !ok {
			continue // outside the window
		}
		series[i].revenue += c.Amount
		series[i].count++
	}

	out := make([]MonthBucket, months)
	for i := range series {
		out[i] = MonthBucket{Month: labels[i], Revenue: series[i].revenue, Count: series[i].count}
	}
	return out
}

// TopN ranks groups by paid revenue, descending. Ties keep first-seen
// order so repeated renders of the same snapshot never reshuffle.
func TopN(cols []collectiondomain.Collection, key func(collectiondomain.Collection) string, n int, log *zap.Logger) []RankedGroup {
	if n <= 0 {
		return nil
	}

	order := make([]string, 0)
	totals := make(map[string]*RankedGroup)
	for _, c := range cols {
		if !valid(c, false) {
			warnSkipped(log, c)
			continue
		}
		if c.Status != collectiondomain.CollectionStatusPaid {
			continue
		}
		k := key(c)
		if k == "" {
			continue
		}
		group, ok := totals[k]
		if !ok {
			group = &RankedGroup{Key: k}
			totals[k] = group
			order = append(order, k)
		}
		group.Revenue += c.Amount
		group.Count++
	}

	ranked := make([]RankedGroup, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, *totals[k])
	}
	// Insertion sort keeps equal sums in first-seen order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Revenue > ranked[j-1].Revenue; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Growth is the fractional change from previous to current. A zero
// previous period is defined as zero growth so dashboards never render
// infinities.
func Growth(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous)
}

// Distribution computes each group's percentage share of paid revenue.
// Shares of a zero total are all zero; there is no division in that case.
func Distribution(cols []collectiondomain.Collection, key func(collectiondomain.Collection) string, log *zap.Logger) []Share {
	order := make([]string, 0)
	totals := make(map[string]int64)
	var grand int64
	for _, c := range cols {
		if !valid(c, false) {
			warnSkipped(log, c)
			continue
		}
		if c.Status != collectiondomain.CollectionStatusPaid {
			continue
		}
		k := key(c)
		if k == "" {
			continue
		}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += c.Amount
		grand += c.Amount
	}

	shares := make([]Share, 0, len(order))
	for _, k := range order {
		share := Share{Key: k, Revenue: totals[k]}
		if grand > 0 {
			share.Percent = float64(totals[k]) / float64(grand) * 100
		}
		shares = append(shares, share)
	}
	return shares
}

func warnSkipped(log *zap.Logger, c collectiondomain.Collection) {
	if log == nil {
		return
	}
	log.Warn("skipping malformed collection record",
		zap.String("collection_id", c.ID.String()),
		zap.Int64("amount", c.Amount),
		zap.Time("date", c.Date),
	)
}
