package analytics

import (
	"reflect"
	"testing"
	"time"

	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
)

func col(amount int64, status collectiondomain.CollectionStatus, date time.Time) collectiondomain.Collection {
	return collectiondomain.Collection{Amount: amount, Status: status, Date: date}
}

var june = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestTotalsSeparatesPaidAndPending(t *testing.T) {
	cols := []collectiondomain.Collection{
		col(500, collectiondomain.CollectionStatusPaid, june),
		col(800, collectiondomain.CollectionStatusPaid, june),
		col(300, collectiondomain.CollectionStatusPending, june),
	}

	s := Totals(cols, nil)
	if s.Revenue != 1300 {
		t.Fatalf("revenue = %d, want 1300", s.Revenue)
	}
	if s.PaidCount != 2 || s.PendingCount != 1 || s.PendingAmount != 300 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestTotalsSkipsMalformedRecords(t *testing.T) {
	cols := []collectiondomain.Collection{
		col(500, collectiondomain.CollectionStatusPaid, june),
		col(-20, collectiondomain.CollectionStatusPaid, june),
	}

	s := Totals(cols, nil)
	if s.Revenue != 500 {
		t.Fatalf("negative amount leaked into revenue: %d", s.Revenue)
	}
	if s.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", s.Skipped)
	}
}

func TestTotalsIdempotent(t *testing.T) {
	cols := []collectiondomain.Collection{
		col(500, collectiondomain.CollectionStatusPaid, june),
		col(300, collectiondomain.CollectionStatusPending, june),
	}

	first := Totals(cols, nil)
	second := Totals(cols, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("totals not idempotent: %+v vs %+v", first, second)
	}
}

func TestMonthlyTrendZeroFillsWindow(t *testing.T) {
	cols := []collectiondomain.Collection{
		col(100, collectiondomain.CollectionStatusPaid, time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC)),
		col(200, collectiondomain.CollectionStatusPaid, time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)),
		col(999, collectiondomain.CollectionStatusPending, time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)),
	}

	trend := MonthlyTrend(cols, 4, june, nil)
	if len(trend) != 4 {
		t.Fatalf("trend length = %d, want 4", len(trend))
	}
	want := []MonthBucket{
		{Month: "2024-03", Revenue: 0, Count: 0},
		{Month: "2024-04", Revenue: 100, Count: 1},
		{Month: "2024-05", Revenue: 0, Count: 0},
		{Month: "2024-06", Revenue: 200, Count: 1},
	}
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend = %+v, want %+v", trend, want)
	}
}

func TestMonthlyTrendIgnoresDatesOutsideWindow(t *testing.T) {
	cols := []collectiondomain.Collection{
		col(100, collectiondomain.CollectionStatusPaid, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}
	trend := MonthlyTrend(cols, 3, june, nil)
	for _, bucket := range trend {
		if bucket.Revenue != 0 {
			t.Fatalf("stale record bucketed: %+v", bucket)
		}
	}
}

func TestTopNStableTieBreak(t *testing.T) {
	byCollector := func(c collectiondomain.Collection) string { return c.CollectorID }
	cols := []collectiondomain.Collection{
		{CollectorID: "ama", Amount: 100, Status: collectiondomain.CollectionStatusPaid},
		{CollectorID: "kwesi", Amount: 100, Status: collectiondomain.CollectionStatusPaid},
		{CollectorID: "efua", Amount: 300, Status: collectiondomain.CollectionStatusPaid},
	}

	ranked := TopN(cols, byCollector, 3, nil)
	if len(ranked) != 3 {
		t.Fatalf("ranked length = %d", len(ranked))
	}
	if ranked[0].Key != "efua" {
		t.Fatalf("top group = %q, want efua", ranked[0].Key)
	}
	// Equal sums keep first-seen order across recomputes.
	if ranked[1].Key != "ama" || ranked[2].Key != "kwesi" {
		t.Fatalf("tie order unstable: %+v", ranked)
	}

	again := TopN(cols, byCollector, 3, nil)
	if !reflect.DeepEqual(ranked, again) {
		t.Fatalf("ranking not deterministic")
	}
}

func TestTopNTruncates(t *testing.T) {
	byZone := func(c collectiondomain.Collection) string { return c.Notes }
	cols := []collectiondomain.Collection{
		{Notes: "a", Amount: 1, Status: collectiondomain.CollectionStatusPaid},
		{Notes: "b", Amount: 2, Status: collectiondomain.CollectionStatusPaid},
		{Notes: "c", Amount: 3, Status: collectiondomain.CollectionStatusPaid},
	}
	ranked := TopN(cols, byZone, 2, nil)
	if len(ranked) != 2 || ranked[0].Key != "c" || ranked[1].Key != "b" {
		t.Fatalf("unexpected truncated ranking %+v", ranked)
	}
}

func TestGrowthZeroPrevious(t *testing.T) {
	if g := Growth(1500, 0); g != 0 {
		t.Fatalf("growth with zero previous = %v, want 0", g)
	}
	if g := Growth(0, 0); g != 0 {
		t.Fatalf("growth 0/0 = %v, want 0", g)
	}
	if g := Growth(150, 100); g != 0.5 {
		t.Fatalf("growth = %v, want 0.5", g)
	}
	if g := Growth(50, 100); g != -0.5 {
		t.Fatalf("growth = %v, want -0.5", g)
	}
}

func TestDistributionSharesSumToHundred(t *testing.T) {
	byType := func(c collectiondomain.Collection) string { return c.Notes }
	cols := []collectiondomain.Collection{
		{Notes: "permit", Amount: 600, Status: collectiondomain.CollectionStatusPaid},
		{Notes: "fee", Amount: 300, Status: collectiondomain.CollectionStatusPaid},
		{Notes: "toll", Amount: 100, Status: collectiondomain.CollectionStatusPaid},
	}

	shares := Distribution(cols, byType, nil)
	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	if sum < 99.999 || sum > 100.001 {
		t.Fatalf("shares sum to %v, want ~100", sum)
	}
	if shares[0].Key != "permit" || shares[0].Percent != 60 {
		t.Fatalf("unexpected first share %+v", shares[0])
	}
}

func TestDistributionZeroTotal(t *testing.T) {
	byType := func(c collectiondomain.Collection) string { return c.Notes }
	cols := []collectiondomain.Collection{
		{Notes: "permit", Amount: 0, Status: collectiondomain.CollectionStatusPaid},
		{Notes: "fee", Amount: 100, Status: collectiondomain.CollectionStatusPending},
	}

	shares := Distribution(cols, byType, nil)
	for _, s := range shares {
		if s.Percent != 0 {
			t.Fatalf("zero total produced nonzero share %+v", s)
		}
	}
}
