package privacy

import (
	"math"

	"github.com/wellnesshub/platform/pkg/common/models"
)

// DefaultMinGroupSize is the disclosure threshold used when configuration
// does not supply one.
const DefaultMinGroupSize = 5

// severityScores converts a severity category back to a midpoint value so
// bucketed records still contribute to averages.
var severityScores = map[string]float64{"low": 2, "medium": 5, "high": 8}

// wellbeingScores maps check-in labels and tri-state categories to numeric
// scores for averaging.
var wellbeingScores = map[string]float64{
	"great": 5, "good": 4, "okay": 3, "struggling": 2, "poor": 1,
	"high": 4.5, "medium": 3, "low": 1.5,
}

// wellbeingCollapse maps every mood label onto the coarse tri-state used
// when suppression leaves too few visible records.
var wellbeingCollapse = map[string]string{
	"great": "high", "good": "high",
	"okay":       "medium",
	"struggling": "low", "poor": "low",
	"high": "high", "medium": "medium", "low": "low",
}

// Aggregator computes k-anonymous aggregates over anonymized records. Any
// category supported by fewer than minGroupSize records is suppressed; if
// suppression leaves the visible total below the threshold the remaining
// categories collapse into a coarse low/medium/high partition and
// suppression runs again.
type Aggregator struct {
	minGroupSize int
}

// NewAggregator builds an aggregator with the given disclosure threshold.
// Non-positive values fall back to DefaultMinGroupSize.
func NewAggregator(minGroupSize int) *Aggregator {
	if minGroupSize <= 0 {
		minGroupSize = DefaultMinGroupSize
	}
	return &Aggregator{minGroupSize: minGroupSize}
}

// MinGroupSize reports the configured disclosure threshold.
func (a *Aggregator) MinGroupSize() int {
	return a.minGroupSize
}

// AggregateSymptoms counts symptoms by type and averages severity per type.
// Records that cannot be read contribute to the skipped count instead of
// aborting the batch.
func (a *Aggregator) AggregateSymptoms(records []map[string]interface{}) models.AggregateResult {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	sampleSizes := make(map[string]int)
	skipped := 0

	for _, record := range records {
		if record == nil {
			skipped++
			continue
		}
		symptomType := getString(record["symptom_type"])
		if symptomType == "" {
			symptomType = "unknown"
		}
		counts[symptomType]++

		if severity, ok := severityValue(record); ok {
			sums[symptomType] += severity
			sampleSizes[symptomType]++
		}
	}

	averages := make(map[string]float64, len(sums))
	for symptomType, sum := range sums {
		if n := sampleSizes[symptomType]; n > 0 {
			averages[symptomType] = roundTenth(sum / float64(n))
		}
	}

	a.suppress(counts, averages)

	if visibleTotal(counts) < a.minGroupSize {
		counts, averages = a.collapseSymptoms(records)
	}

	return models.AggregateResult{
		Counts:   counts,
		Averages: averages,
		Total:    len(records) - skipped,
		Skipped:  skipped,
	}
}

// collapseSymptoms rebuilds the partition on severity buckets, the coarsest
// grouping that still says something, and re-applies suppression.
func (a *Aggregator) collapseSymptoms(records []map[string]interface{}) (map[string]int, map[string]float64) {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	sampleSizes := make(map[string]int)

	for _, record := range records {
		if record == nil {
			continue
		}
		bucket := "medium"
		severity, hasSeverity := severityValue(record)
		if hasSeverity {
			bucket = SeverityCategory(severity)
		}
		counts[bucket]++
		if hasSeverity {
			sums[bucket] += severity
			sampleSizes[bucket]++
		}
	}

	averages := make(map[string]float64, len(sums))
	for bucket, sum := range sums {
		if n := sampleSizes[bucket]; n > 0 {
			averages[bucket] = roundTenth(sum / float64(n))
		}
	}

	a.suppress(counts, averages)
	return counts, averages
}

// AggregateAccommodations counts requests by type and by status. Type counts
// below the threshold are suppressed; when the surviving types together fall
// under the threshold the type breakdown is dropped entirely and only the
// status view remains.
func (a *Aggregator) AggregateAccommodations(records []map[string]interface{}) models.AggregateResult {
	counts := make(map[string]int)
	statusCounts := map[string]int{"pending": 0, "approved": 0, "denied": 0}
	skipped := 0

	for _, record := range records {
		if record == nil {
			skipped++
			continue
		}
		requestType := getString(record["type"])
		if requestType == "" {
			requestType = "unknown"
		}
		counts[requestType]++

		status := getString(record["status"])
		if status == "" {
			status = "pending"
		}
		statusCounts[status]++
	}

	averages := make(map[string]float64)
	a.suppress(counts, averages)

	if visibleTotal(counts) < a.minGroupSize {
		counts = make(map[string]int)
	}

	return models.AggregateResult{
		Counts:       counts,
		Averages:     averages,
		StatusCounts: statusCounts,
		Total:        len(records) - skipped,
		Skipped:      skipped,
	}
}

// AggregateWellbeing counts check-ins by mood and computes an overall
// average score. A record may carry either the raw five-point label or the
// tri-state category produced by high-privacy generalization.
func (a *Aggregator) AggregateWellbeing(records []map[string]interface{}) models.AggregateResult {
	counts := make(map[string]int)
	totalScore := 0.0
	scored := 0
	skipped := 0

	for _, record := range records {
		mood, ok := moodLabel(record)
		if !ok {
			skipped++
			continue
		}
		counts[mood]++

		score, known := wellbeingScores[mood]
		if !known {
			score = 3
		}
		totalScore += score
		scored++
	}

	averageScore := 0.0
	if scored > 0 {
		averageScore = roundTenth(totalScore / float64(scored))
	}

	averages := make(map[string]float64)
	a.suppress(counts, averages)

	if visibleTotal(counts) < a.minGroupSize {
		counts = a.collapseWellbeing(records)
	}

	return models.AggregateResult{
		Counts:       counts,
		Averages:     averages,
		AverageScore: averageScore,
		Total:        len(records) - skipped,
		Skipped:      skipped,
	}
}

func (a *Aggregator) collapseWellbeing(records []map[string]interface{}) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		mood, ok := moodLabel(record)
		if !ok {
			continue
		}
		category, known := wellbeingCollapse[mood]
		if !known {
			category = "medium"
		}
		counts[category]++
	}
	a.suppress(counts, nil)
	return counts
}

// suppress removes every category whose supporting count is below the
// disclosure threshold, from both the count and average maps.
func (a *Aggregator) suppress(counts map[string]int, averages map[string]float64) {
	for category, count := range counts {
		if count < a.minGroupSize {
			delete(counts, category)
			if averages != nil {
				delete(averages, category)
			}
		}
	}
}

func severityValue(record map[string]interface{}) (float64, bool) {
	if severity, ok := getNumber(record["severity_level"]); ok {
		return severity, true
	}
	if category := getString(record["severity_category"]); category != "" {
		if score, ok := severityScores[category]; ok {
			return score, true
		}
		return 5, true
	}
	return 0, false
}

func moodLabel(record map[string]interface{}) (string, bool) {
	if record == nil {
		return "", false
	}
	if mood := getString(record["overall_wellbeing"]); mood != "" {
		return mood, true
	}
	if category := getString(record["wellbeing_category"]); category != "" {
		return category, true
	}
	return "", false
}

func visibleTotal(counts map[string]int) int {
	total := 0
	for _, count := range counts {
		total += count
	}
	return total
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
