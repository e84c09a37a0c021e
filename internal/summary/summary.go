// Package summary reduces a detection run to coverage and quality figures.
package summary

import (
	"sort"

	"github.com/varlens/varlens-cli/internal/detect"
	"github.com/varlens/varlens-cli/internal/registry"
)

// Quality labels the overall coverage of a scan.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Cutoffs holds the coverage fractions for each quality label. The zero
// value selects the defaults (0.9 / 0.7 / 0.5).
type Cutoffs struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Fair      float64 `json:"fair"`
}

// DefaultCutoffs returns the standard quality boundaries.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{Excellent: 0.9, Good: 0.7, Fair: 0.5}
}

func (c Cutoffs) isZero() bool {
	return c.Excellent == 0 && c.Good == 0 && c.Fair == 0
}

// CategoryStats is the coverage computation restricted to one category.
type CategoryStats struct {
	Total          int     `json:"total"`
	Detected       int     `json:"detected"`
	Coverage       float64 `json:"coverage"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Summary aggregates the results of a detection run.
type Summary struct {
	Total          int                                 `json:"total_variables"`
	Detected       int                                 `json:"detected_variables"`
	Coverage       float64                             `json:"coverage"`
	MeanConfidence float64                             `json:"mean_confidence"`
	Quality        Quality                             `json:"quality"`
	Missing        []string                            `json:"missing,omitempty"`
	Tiers          map[detect.Tier]int                 `json:"tiers"`
	ByCategory     map[registry.Category]CategoryStats `json:"by_category"`
}

// Summarize computes coverage, mean confidence over detected variables, tier
// and category counts, and the overall quality label. Mean confidence is 0.0
// when nothing was detected; an empty result set is quality poor.
func Summarize(results []detect.Result, cutoffs Cutoffs) Summary {
	if cutoffs.isZero() {
		cutoffs = DefaultCutoffs()
	}

	s := Summary{
		Total:      len(results),
		Tiers:      map[detect.Tier]int{},
		ByCategory: map[registry.Category]CategoryStats{},
	}
	confSum := 0.0
	catConf := map[registry.Category]float64{}
	for _, r := range results {
		cs := s.ByCategory[r.Category]
		cs.Total++
		if r.Detected {
			s.Detected++
			confSum += r.Confidence
			s.Tiers[r.Tier]++
			cs.Detected++
			catConf[r.Category] += r.Confidence
		} else {
			s.Missing = append(s.Missing, r.Key)
		}
		s.ByCategory[r.Category] = cs
	}
	sort.Strings(s.Missing)

	for cat, cs := range s.ByCategory {
		cs.Coverage = float64(cs.Detected) / float64(cs.Total)
		if cs.Detected > 0 {
			cs.MeanConfidence = catConf[cat] / float64(cs.Detected)
		}
		s.ByCategory[cat] = cs
	}

	if s.Total > 0 {
		s.Coverage = float64(s.Detected) / float64(s.Total)
	}
	if s.Detected > 0 {
		s.MeanConfidence = confSum / float64(s.Detected)
	}
	s.Quality = qualityOf(s.Coverage, s.Total, cutoffs)
	return s
}

func qualityOf(coverage float64, total int, c Cutoffs) Quality {
	switch {
	case total == 0:
		return QualityPoor
	case coverage >= c.Excellent:
		return QualityExcellent
	case coverage >= c.Good:
		return QualityGood
	case coverage >= c.Fair:
		return QualityFair
	default:
		return QualityPoor
	}
}
