package appraisal

import "testing"

func intPtr(v int) *int { return &v }

func TestComputeScoreWeightedSections(t *testing.T) {
	// Two criteria worth 60 and 40, only the first rated at the top of
	// the scale: credit 60, denominator still 100.
	items := []CriterionScore{
		{CriterionID: "c1", Name: "Delivery", Weight: 60, Value: intPtr(5)},
		{CriterionID: "c2", Name: "Teamwork", Weight: 40, Value: nil},
	}

	result := ComputeScore(items)
	if result.TotalScore != 60 {
		t.Fatalf("expected total 60, got %v", result.TotalScore)
	}
	if result.MaxScore != 100 {
		t.Fatalf("expected max 100, got %d", result.MaxScore)
	}
	if result.Percentage != 60 {
		t.Fatalf("expected percentage 60, got %d", result.Percentage)
	}

	missing := UnratedCriteria(items)
	if len(missing) != 1 || missing[0] != "Teamwork" {
		t.Fatalf("expected Teamwork unrated, got %v", missing)
	}
}

func TestComputeScorePartialRatings(t *testing.T) {
	items := []CriterionScore{
		{CriterionID: "c1", Name: "A", Weight: 50, Value: intPtr(4)},
		{CriterionID: "c2", Name: "B", Weight: 30, Value: intPtr(3)},
		{CriterionID: "c3", Name: "C", Weight: 20, Value: intPtr(0)},
	}

	result := ComputeScore(items)
	// 4/5*50 + 3/5*30 = 40 + 18 = 58 over 100.
	if result.TotalScore != 58 {
		t.Fatalf("expected total 58, got %v", result.TotalScore)
	}
	if result.Percentage != 58 {
		t.Fatalf("expected percentage 58, got %d", result.Percentage)
	}

	// A zero rating counts as unrated.
	missing := UnratedCriteria(items)
	if len(missing) != 1 || missing[0] != "C" {
		t.Fatalf("expected C unrated, got %v", missing)
	}
}

func TestComputeScoreAllUnrated(t *testing.T) {
	items := []CriterionScore{
		{CriterionID: "c1", Name: "A", Weight: 70},
		{CriterionID: "c2", Name: "B", Weight: 30},
	}

	result := ComputeScore(items)
	if result.TotalScore != 0 || result.Percentage != 0 {
		t.Fatalf("expected zero score, got %+v", result)
	}
	if result.MaxScore != 100 {
		t.Fatalf("expected max 100, got %d", result.MaxScore)
	}
}

func TestComputeScoreNoCriteria(t *testing.T) {
	result := ComputeScore(nil)
	if result.Percentage != 0 || result.MaxScore != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
}

func TestMapToPerformanceLevelBoundaries(t *testing.T) {
	cases := []struct {
		percentage     int
		level          string
		recommendation string
	}{
		{100, LevelOutstanding, RecommendPromote},
		{80, LevelOutstanding, RecommendPromote},
		{79, LevelExceeds, RecommendPromote},
		{70, LevelExceeds, RecommendPromote},
		{69, LevelMeets, RecommendExtend},
		{50, LevelMeets, RecommendExtend},
		{49, LevelNeedsImprovement, RecommendExtendWithPIP},
		{30, LevelNeedsImprovement, RecommendExtendWithPIP},
		{29, LevelUnsatisfactory, RecommendTerminate},
		{0, LevelUnsatisfactory, RecommendTerminate},
	}

	for _, tc := range cases {
		got := MapToPerformanceLevel(tc.percentage)
		if got.Level != tc.level {
			t.Fatalf("percentage %d: expected level %s, got %s", tc.percentage, tc.level, got.Level)
		}
		if got.Recommendation != tc.recommendation {
			t.Fatalf("percentage %d: expected recommendation %s, got %s", tc.percentage, tc.recommendation, got.Recommendation)
		}
	}
}

func TestMapToPerformanceLevelMonotonic(t *testing.T) {
	rank := map[string]int{
		LevelUnsatisfactory:   0,
		LevelNeedsImprovement: 1,
		LevelMeets:            2,
		LevelExceeds:          3,
		LevelOutstanding:      4,
	}

	previous := rank[MapToPerformanceLevel(0).Level]
	for percentage := 1; percentage <= 100; percentage++ {
		current := rank[MapToPerformanceLevel(percentage).Level]
		if current < previous {
			t.Fatalf("level rank dropped at percentage %d", percentage)
		}
		previous = current
	}
}
