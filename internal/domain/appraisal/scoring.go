package appraisal

import "math"

type ScoreResult struct {
	TotalScore float64 `json:"totalScore"`
	MaxScore   int     `json:"maxScore"`
	Percentage int     `json:"percentage"`
}

// CriterionScore is one criterion's weight paired with one perspective's
// rating value, nil when the criterion has not been rated.
type CriterionScore struct {
	CriterionID string
	Name        string
	Weight      int
	Value       *int
}

// ComputeScore credits a criterion only when it carries a non-zero
// rating but always counts its weight toward the maximum, so unrated
// criteria depress the percentage instead of shrinking the denominator.
func ComputeScore(items []CriterionScore) ScoreResult {
	var total float64
	var maxScore int
	for _, item := range items {
		maxScore += item.Weight
		if item.Value != nil && *item.Value > 0 {
			total += float64(*item.Value) / RatingScaleMax * float64(item.Weight)
		}
	}
	result := ScoreResult{TotalScore: total, MaxScore: maxScore}
	if maxScore > 0 {
		result.Percentage = int(math.Round(100 * total / float64(maxScore)))
	}
	return result
}

// UnratedCriteria lists the criteria carrying no usable rating for the
// perspective. Surfaced as a warning on submission, never a block:
// partial ratings are read as "not all criteria were applicable".
func UnratedCriteria(items []CriterionScore) []string {
	var missing []string
	for _, item := range items {
		if item.Value == nil || *item.Value == 0 {
			missing = append(missing, item.Name)
		}
	}
	return missing
}

type PerformanceLevel struct {
	Level          string `json:"level"`
	Recommendation string `json:"recommendation"`
}

const (
	LevelOutstanding      = "Outstanding"
	LevelExceeds          = "Exceeds Expectations"
	LevelMeets            = "Meets Expectations"
	LevelNeedsImprovement = "Needs Improvement"
	LevelUnsatisfactory   = "Unsatisfactory"

	RecommendPromote       = "promote"
	RecommendExtend        = "extend_contract"
	RecommendExtendWithPIP = "extend_with_pip"
	RecommendTerminate     = "terminate"
)

func MapToPerformanceLevel(percentage int) PerformanceLevel {
	switch {
	case percentage >= 80:
		return PerformanceLevel{Level: LevelOutstanding, Recommendation: RecommendPromote}
	case percentage >= 70:
		return PerformanceLevel{Level: LevelExceeds, Recommendation: RecommendPromote}
	case percentage >= 50:
		return PerformanceLevel{Level: LevelMeets, Recommendation: RecommendExtend}
	case percentage >= 30:
		return PerformanceLevel{Level: LevelNeedsImprovement, Recommendation: RecommendExtendWithPIP}
	default:
		return PerformanceLevel{Level: LevelUnsatisfactory, Recommendation: RecommendTerminate}
	}
}
