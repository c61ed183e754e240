// Package analytics derives skill statistics, trend series and performance
// summaries from flat rating observations. The computations are pure: they
// hold no state and read nothing beyond their arguments.
package analytics

import (
	"fmt"
	"sort"
	"time"
)

const rankSize = 5

// Observation is one skill_ratings row joined with its parent task's date.
type Observation struct {
	SkillID   string
	SkillName string
	Rating    int
	TaskDate  time.Time
}

type SkillAverage struct {
	SkillID   string  `json:"skillId"`
	SkillName string  `json:"skillName"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
}

type SkillTrend struct {
	SkillID     string    `json:"skillId"`
	SkillName   string    `json:"skillName"`
	BucketStart time.Time `json:"bucketStart"`
	Average     float64   `json:"average"`
	Count       int       `json:"count"`
}

// SkillBreakdown ranks every rated skill. Top5 and Bottom5 come from the
// same ordering; on sparse data (five or fewer rated skills) they overlap.
type SkillBreakdown struct {
	All     []SkillAverage `json:"all"`
	Top5    []SkillAverage `json:"top5"`
	Bottom5 []SkillAverage `json:"bottom5"`
}

type TaskFlags struct {
	DeliveredOnTime       bool
	ManagerFoundIssues    bool
	ManagerHelpedAnalysis bool
}

type Summary struct {
	TotalTasks          int            `json:"totalTasks"`
	OnTimeDeliveryRate  float64        `json:"onTimeDeliveryRate"`
	ManagerIssuesRate   float64        `json:"managerIssuesRate"`
	ManagerHelpedRate   float64        `json:"managerHelpedRate"`
	OverallAverage      float64        `json:"overallAverage"`
	SkillAverages       []SkillAverage `json:"skillAverages"`
	Strengths           []SkillAverage `json:"strengths"`
	GrowthOpportunities []SkillAverage `json:"growthOpportunities"`
}

// ValidateObservations rejects the whole input on the first malformed row.
// The task store bounds ratings before they are persisted, so a violation
// here means corrupted input, not a row to skip quietly.
func ValidateObservations(observations []Observation) error {
	for i, obs := range observations {
		if obs.SkillID == "" {
			return fmt.Errorf("observation %d: missing skill id", i)
		}
		if obs.Rating < 1 || obs.Rating > 5 {
			return fmt.Errorf("observation %d: rating %d outside [1,5] for skill %q", i, obs.Rating, obs.SkillName)
		}
	}
	return nil
}

// ComputeSkillAverages groups observations by skill and ranks the groups by
// mean descending, count descending, then name ascending. Skills without
// observations never appear.
func ComputeSkillAverages(observations []Observation) (SkillBreakdown, error) {
	if err := ValidateObservations(observations); err != nil {
		return SkillBreakdown{}, err
	}

	type accumulator struct {
		name  string
		sum   int
		count int
		min   int
		max   int
	}
	groups := make(map[string]*accumulator)
	for _, obs := range observations {
		acc, ok := groups[obs.SkillID]
		if !ok {
			groups[obs.SkillID] = &accumulator{name: obs.SkillName, sum: obs.Rating, count: 1, min: obs.Rating, max: obs.Rating}
			continue
		}
		acc.sum += obs.Rating
		acc.count++
		if obs.Rating < acc.min {
			acc.min = obs.Rating
		}
		if obs.Rating > acc.max {
			acc.max = obs.Rating
		}
	}

	all := make([]SkillAverage, 0, len(groups))
	for skillID, acc := range groups {
		all = append(all, SkillAverage{
			SkillID:   skillID,
			SkillName: acc.name,
			Average:   float64(acc.sum) / float64(acc.count),
			Count:     acc.count,
			Min:       acc.min,
			Max:       acc.max,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Average != all[j].Average {
			return all[i].Average > all[j].Average
		}
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].SkillName < all[j].SkillName
	})

	top := rankSize
	if top > len(all) {
		top = len(all)
	}

	bottom := make([]SkillAverage, 0, top)
	for i := len(all) - 1; i >= len(all)-top; i-- {
		bottom = append(bottom, all[i])
	}

	return SkillBreakdown{
		All:     all,
		Top5:    append([]SkillAverage(nil), all[:top]...),
		Bottom5: bottom,
	}, nil
}

// ComputeTrends buckets observations into week or month windows per skill.
// Output is ordered by bucket start, then skill name for determinism.
func ComputeTrends(observations []Observation, granularity Granularity) ([]SkillTrend, error) {
	if err := ValidateObservations(observations); err != nil {
		return nil, err
	}

	type key struct {
		skillID string
		bucket  time.Time
	}
	type accumulator struct {
		name  string
		sum   int
		count int
	}
	groups := make(map[key]*accumulator)
	for _, obs := range observations {
		k := key{skillID: obs.SkillID, bucket: BucketStart(obs.TaskDate, granularity)}
		acc, ok := groups[k]
		if !ok {
			groups[k] = &accumulator{name: obs.SkillName, sum: obs.Rating, count: 1}
			continue
		}
		acc.sum += obs.Rating
		acc.count++
	}

	out := make([]SkillTrend, 0, len(groups))
	for k, acc := range groups {
		out = append(out, SkillTrend{
			SkillID:     k.skillID,
			SkillName:   acc.name,
			BucketStart: k.bucket,
			Average:     float64(acc.sum) / float64(acc.count),
			Count:       acc.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].BucketStart.Equal(out[j].BucketStart) {
			return out[i].BucketStart.Before(out[j].BucketStart)
		}
		return out[i].SkillName < out[j].SkillName
	})
	return out, nil
}

// ComputeSummary builds the performance summary over a filtered task set.
// OverallAverage is the mean of per-skill means, not of raw ratings, so a
// heavily rated skill cannot drown out the others.
func ComputeSummary(flags []TaskFlags, observations []Observation) (Summary, error) {
	breakdown, err := ComputeSkillAverages(observations)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalTasks:          len(flags),
		SkillAverages:       breakdown.All,
		Strengths:           breakdown.Top5,
		GrowthOpportunities: breakdown.Bottom5,
	}

	if len(flags) == 0 {
		return summary, nil
	}

	var onTime, issues, helped int
	for _, f := range flags {
		if f.DeliveredOnTime {
			onTime++
		}
		if f.ManagerFoundIssues {
			issues++
		}
		if f.ManagerHelpedAnalysis {
			helped++
		}
	}
	total := float64(len(flags))
	summary.OnTimeDeliveryRate = float64(onTime) / total * 100
	summary.ManagerIssuesRate = float64(issues) / total * 100
	summary.ManagerHelpedRate = float64(helped) / total * 100

	if len(breakdown.All) > 0 {
		var sum float64
		for _, avg := range breakdown.All {
			sum += avg.Average
		}
		summary.OverallAverage = sum / float64(len(breakdown.All))
	}
	return summary, nil
}
