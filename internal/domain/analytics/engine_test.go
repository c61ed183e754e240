package analytics

import (
	"math"
	"testing"
	"time"
)

func obs(skillID, name string, rating int, taskDate time.Time) Observation {
	return Observation{SkillID: skillID, SkillName: name, Rating: rating, TaskDate: taskDate}
}

func TestComputeSkillAveragesBounds(t *testing.T) {
	observations := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
		obs("s1", "Testing", 5, date(2024, 1, 8)),
		obs("s1", "Testing", 3, date(2024, 1, 15)),
		obs("s2", "Analysis", 2, date(2024, 1, 2)),
	}

	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	for _, avg := range breakdown.All {
		if avg.Average < 1 || avg.Average > 5 {
			t.Fatalf("mean %f outside [1,5] for %s", avg.Average, avg.SkillName)
		}
		if float64(avg.Min) > avg.Average || avg.Average > float64(avg.Max) {
			t.Fatalf("min %d <= mean %f <= max %d violated for %s", avg.Min, avg.Average, avg.Max, avg.SkillName)
		}
	}

	testing_ := breakdown.All[0]
	if testing_.SkillName != "Testing" || testing_.Count != 3 || testing_.Min != 3 || testing_.Max != 5 {
		t.Fatalf("unexpected first entry: %+v", testing_)
	}
	if testing_.Average != 4 {
		t.Fatalf("expected mean 4, got %f", testing_.Average)
	}
}

func TestRankingOrderAndTieBreaks(t *testing.T) {
	observations := []Observation{
		// Same mean (4.0): s2 has more ratings so it ranks first; s1 and s3
		// tie on count too and fall back to name order.
		obs("s1", "Planning", 4, date(2024, 1, 2)),
		obs("s3", "Analysis", 4, date(2024, 1, 2)),
		obs("s2", "Testing", 3, date(2024, 1, 2)),
		obs("s2", "Testing", 5, date(2024, 1, 3)),
		obs("s4", "QA", 5, date(2024, 1, 2)),
		obs("s5", "English", 1, date(2024, 1, 2)),
	}

	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	var names []string
	for _, avg := range breakdown.All {
		names = append(names, avg.SkillName)
	}
	want := []string{"QA", "Testing", "Analysis", "Planning", "English"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("rank %d = %s, want %s (full order %v)", i, names[i], name, names)
		}
	}
}

func TestTopAndBottomFromSameOrdering(t *testing.T) {
	observations := make([]Observation, 0, 8)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, name := range names {
		rating := 1 + i%5
		observations = append(observations, obs("s"+name, name, rating, date(2024, 1, 2)))
	}

	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(breakdown.Top5) != 5 || len(breakdown.Bottom5) != 5 {
		t.Fatalf("expected 5/5, got %d/%d", len(breakdown.Top5), len(breakdown.Bottom5))
	}
	for i := range breakdown.Top5 {
		if breakdown.Top5[i] != breakdown.All[i] {
			t.Fatalf("top5[%d] diverges from sorted list", i)
		}
	}
	// Reversing Bottom5 must yield the tail of All.
	n := len(breakdown.All)
	for i := range breakdown.Bottom5 {
		if breakdown.Bottom5[i] != breakdown.All[n-1-i] {
			t.Fatalf("bottom5[%d] is not the reversed tail", i)
		}
	}
	if breakdown.Bottom5[0].Average > breakdown.Bottom5[len(breakdown.Bottom5)-1].Average {
		t.Fatal("bottom5 must list the lowest-rated skill first")
	}
}

func TestSparseDataOverlapAccepted(t *testing.T) {
	observations := []Observation{
		obs("s1", "Testing", 5, date(2024, 1, 2)),
		obs("s2", "Analysis", 2, date(2024, 1, 2)),
	}

	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(breakdown.Top5) != 2 || len(breakdown.Bottom5) != 2 {
		t.Fatalf("expected both lists to hold all skills, got %d/%d", len(breakdown.Top5), len(breakdown.Bottom5))
	}
	if breakdown.Top5[0].SkillName != "Testing" {
		t.Fatalf("expected Testing on top, got %s", breakdown.Top5[0].SkillName)
	}
	if breakdown.Bottom5[0].SkillName != "Analysis" {
		t.Fatalf("expected Analysis first in bottom list, got %s", breakdown.Bottom5[0].SkillName)
	}
}

func TestUnratedSkillNeverAppears(t *testing.T) {
	observations := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
	}
	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	for _, list := range [][]SkillAverage{breakdown.All, breakdown.Top5, breakdown.Bottom5} {
		for _, avg := range list {
			if avg.SkillID != "s1" {
				t.Fatalf("skill %s with no observations surfaced", avg.SkillID)
			}
		}
	}
}

func TestComputeSkillAveragesRejectsBadRating(t *testing.T) {
	observations := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
		obs("s2", "Analysis", 7, date(2024, 1, 2)),
	}
	if _, err := ComputeSkillAverages(observations); err == nil {
		t.Fatal("expected whole computation to be rejected")
	}
	if _, err := ComputeTrends(observations, GranularityWeek); err == nil {
		t.Fatal("expected trend computation to be rejected")
	}
}

func TestComputeTrendsWeeklyScenario(t *testing.T) {
	// Three tasks: Tue 2024-01-02 and Mon 2024-01-08 fall in consecutive
	// weeks; 2024-01-02 buckets to Monday 2024-01-01.
	observations := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
		obs("s1", "Testing", 5, date(2024, 1, 8)),
		obs("s1", "Testing", 3, date(2024, 1, 15)),
	}

	trends, err := ComputeTrends(observations, GranularityWeek)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(trends) != 3 {
		t.Fatalf("expected 3 weekly buckets, got %d: %+v", len(trends), trends)
	}
	if !trends[0].BucketStart.Equal(date(2024, 1, 1)) || trends[0].Average != 4 {
		t.Fatalf("first bucket wrong: %+v", trends[0])
	}
	if !trends[1].BucketStart.Equal(date(2024, 1, 8)) || trends[1].Average != 5 {
		t.Fatalf("second bucket wrong: %+v", trends[1])
	}
	if !trends[2].BucketStart.Equal(date(2024, 1, 15)) || trends[2].Average != 3 {
		t.Fatalf("third bucket wrong: %+v", trends[2])
	}

	// Merging the first two observations into one week gives mean 4.5.
	merged := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
		obs("s1", "Testing", 5, date(2024, 1, 1)),
		obs("s1", "Testing", 3, date(2024, 1, 15)),
	}
	trends, err = ComputeTrends(merged, GranularityWeek)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(trends))
	}
	if trends[0].Average != 4.5 || trends[0].Count != 2 {
		t.Fatalf("merged week wrong: %+v", trends[0])
	}
}

func TestComputeTrendsPartitionsObservations(t *testing.T) {
	observations := []Observation{
		obs("s1", "Testing", 4, date(2024, 1, 2)),
		obs("s1", "Testing", 5, date(2024, 1, 8)),
		obs("s1", "Testing", 3, date(2024, 2, 15)),
		obs("s2", "Analysis", 2, date(2024, 1, 4)),
		obs("s2", "Analysis", 4, date(2024, 1, 4)),
	}

	for _, granularity := range []Granularity{GranularityWeek, GranularityMonth} {
		trends, err := ComputeTrends(observations, granularity)
		if err != nil {
			t.Fatalf("compute failed: %v", err)
		}
		counts := map[string]int{}
		for _, trend := range trends {
			counts[trend.SkillID] += trend.Count
		}
		if counts["s1"] != 3 || counts["s2"] != 2 {
			t.Fatalf("%s buckets lost or duplicated observations: %v", granularity, counts)
		}
	}
}

func TestComputeTrendsEmptyInput(t *testing.T) {
	trends, err := ComputeTrends(nil, GranularityMonth)
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if len(trends) != 0 {
		t.Fatalf("expected empty output, got %+v", trends)
	}
}

func TestComputeSummaryEmptyTaskSet(t *testing.T) {
	summary, err := ComputeSummary(nil, nil)
	if err != nil {
		t.Fatalf("empty set must not error: %v", err)
	}
	if summary.TotalTasks != 0 || summary.OnTimeDeliveryRate != 0 || summary.ManagerIssuesRate != 0 ||
		summary.ManagerHelpedRate != 0 || summary.OverallAverage != 0 {
		t.Fatalf("expected all-zero summary, got %+v", summary)
	}
	if len(summary.SkillAverages) != 0 || len(summary.Strengths) != 0 || len(summary.GrowthOpportunities) != 0 {
		t.Fatal("expected empty lists in zero-task summary")
	}
}

func TestComputeSummaryRates(t *testing.T) {
	flags := []TaskFlags{
		{DeliveredOnTime: true, ManagerFoundIssues: false, ManagerHelpedAnalysis: true},
		{DeliveredOnTime: true, ManagerFoundIssues: true, ManagerHelpedAnalysis: false},
		{DeliveredOnTime: false, ManagerFoundIssues: false, ManagerHelpedAnalysis: false},
		{DeliveredOnTime: true, ManagerFoundIssues: false, ManagerHelpedAnalysis: false},
	}
	summary, err := ComputeSummary(flags, nil)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if summary.TotalTasks != 4 {
		t.Fatalf("total = %d", summary.TotalTasks)
	}
	if summary.OnTimeDeliveryRate != 75 {
		t.Fatalf("on-time rate = %f", summary.OnTimeDeliveryRate)
	}
	if summary.ManagerIssuesRate != 25 {
		t.Fatalf("issues rate = %f", summary.ManagerIssuesRate)
	}
	if summary.ManagerHelpedRate != 25 {
		t.Fatalf("helped rate = %f", summary.ManagerHelpedRate)
	}
}

func TestOverallAverageIsMeanOfMeans(t *testing.T) {
	// Skill s1 has many low ratings, s2 one high rating. A raw-row mean
	// would be dragged toward s1; the mean of means weighs both equally.
	observations := []Observation{
		obs("s1", "Testing", 2, date(2024, 1, 2)),
		obs("s1", "Testing", 2, date(2024, 1, 3)),
		obs("s1", "Testing", 2, date(2024, 1, 4)),
		obs("s2", "Analysis", 5, date(2024, 1, 2)),
	}
	flags := []TaskFlags{{DeliveredOnTime: true}}

	summary, err := ComputeSummary(flags, observations)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if math.Abs(summary.OverallAverage-3.5) > 1e-9 {
		t.Fatalf("expected mean of means 3.5, got %f", summary.OverallAverage)
	}
	rawMean := (2.0 + 2 + 2 + 5) / 4
	if math.Abs(summary.OverallAverage-rawMean) < 1e-9 {
		t.Fatal("overall average must not equal the raw-row mean here")
	}
}
