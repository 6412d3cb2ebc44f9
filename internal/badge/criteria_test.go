package badge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func autoTaskDef(id uint, payload string) *Achievement {
	return &Achievement{ID: id, CriteriaType: CriteriaAutoTask, CriteriaValue: datatypes.JSON(payload)}
}

func assessmentDef(id uint, payload string) *Achievement {
	return &Achievement{ID: id, CriteriaType: CriteriaAutoAssessment, CriteriaValue: datatypes.JSON(payload)}
}

func TestParseCriteriaCompletionCount(t *testing.T) {
	criteria, err := ParseCriteria(autoTaskDef(1, `{"type": "completion_count", "count": 10}`))
	require.NoError(t, err)
	assert.Equal(t, KindCompletionCount, criteria.Kind)
	assert.Equal(t, 10, criteria.Count)
}

func TestParseCriteriaConsecutiveDays(t *testing.T) {
	criteria, err := ParseCriteria(autoTaskDef(2, `{"type": "consecutive_days", "consecutive_days": 30}`))
	require.NoError(t, err)
	assert.Equal(t, KindConsecutiveDays, criteria.Kind)
	assert.Equal(t, 30, criteria.Days)
}

func TestParseCriteriaScore(t *testing.T) {
	criteria, err := ParseCriteria(assessmentDef(3, `{"type": "score", "min_score": 80, "all_items": true}`))
	require.NoError(t, err)
	assert.Equal(t, KindScore, criteria.Kind)
	assert.Equal(t, 80.0, criteria.MinScore)
	assert.True(t, criteria.AllItems)

	// Older payloads omit the kind entirely.
	criteria, err = ParseCriteria(assessmentDef(4, `{"min_score": 60}`))
	require.NoError(t, err)
	assert.Equal(t, KindScore, criteria.Kind)
	assert.False(t, criteria.AllItems)
}

func TestParseCriteriaRejectsBadPayloads(t *testing.T) {
	bad := []*Achievement{
		autoTaskDef(10, ``),
		autoTaskDef(11, `not json`),
		autoTaskDef(12, `{"type": "completion_count"}`),
		autoTaskDef(13, `{"type": "completion_count", "count": 0}`),
		autoTaskDef(14, `{"type": "consecutive_days", "consecutive_days": -3}`),
		autoTaskDef(15, `{"type": "no_such_kind", "count": 5}`),
		assessmentDef(16, `{"type": "score"}`),
		assessmentDef(17, `{"type": "completion_count", "count": 5}`),
		{ID: 18, CriteriaType: CriteriaManual, CriteriaValue: datatypes.JSON(`{}`)},
	}
	for _, def := range bad {
		_, err := ParseCriteria(def)
		require.Error(t, err, "achievement %d should be rejected", def.ID)

		var evalErr *EvaluationError
		require.True(t, errors.As(err, &evalErr), "achievement %d should fail with an EvaluationError", def.ID)
		assert.Equal(t, def.ID, evalErr.AchievementID)
	}
}

func TestEvaluateCompletionCount(t *testing.T) {
	criteria := &Criteria{Kind: KindCompletionCount, Count: 10}

	outcome := criteria.Evaluate(PlayerFacts{CompletedTaskCount: 10})
	assert.True(t, outcome.Unlocked)
	assert.Equal(t, FullProgress, outcome.Progress)

	outcome = criteria.Evaluate(PlayerFacts{CompletedTaskCount: 7})
	assert.False(t, outcome.Unlocked)
	assert.Equal(t, 70, outcome.Progress)

	outcome = criteria.Evaluate(PlayerFacts{})
	assert.False(t, outcome.Unlocked)
	assert.Equal(t, 0, outcome.Progress)

	// Progress truncates rather than rounds.
	criteria = &Criteria{Kind: KindCompletionCount, Count: 3}
	outcome = criteria.Evaluate(PlayerFacts{CompletedTaskCount: 2})
	assert.Equal(t, 66, outcome.Progress)
}

func TestEvaluateConsecutiveDays(t *testing.T) {
	criteria := &Criteria{Kind: KindConsecutiveDays, Days: 5}

	outcome := criteria.Evaluate(PlayerFacts{MaxDailyStreak: 5})
	assert.True(t, outcome.Unlocked)

	outcome = criteria.Evaluate(PlayerFacts{MaxDailyStreak: 4})
	assert.False(t, outcome.Unlocked)
	assert.Equal(t, 80, outcome.Progress)

	// Exceeding the requirement still caps at full progress.
	outcome = criteria.Evaluate(PlayerFacts{MaxDailyStreak: 12})
	assert.True(t, outcome.Unlocked)
	assert.Equal(t, FullProgress, outcome.Progress)
}

func TestEvaluateScoreAnyItem(t *testing.T) {
	criteria := &Criteria{Kind: KindScore, MinScore: 80}

	outcome := criteria.Evaluate(PlayerFacts{Scores: []float64{85, 90, 70}})
	assert.True(t, outcome.Unlocked, "one qualifying score is enough")

	outcome = criteria.Evaluate(PlayerFacts{Scores: []float64{79.9, 70}})
	assert.False(t, outcome.Unlocked)
	assert.Equal(t, 0, outcome.Progress, "score criteria record no partial progress")

	outcome = criteria.Evaluate(PlayerFacts{})
	assert.False(t, outcome.Unlocked)
}

func TestEvaluateScoreAllItems(t *testing.T) {
	criteria := &Criteria{Kind: KindScore, MinScore: 75, AllItems: true}

	outcome := criteria.Evaluate(PlayerFacts{Scores: []float64{85, 90, 70}})
	assert.False(t, outcome.Unlocked, "one score below the floor fails all_items")

	outcome = criteria.Evaluate(PlayerFacts{Scores: []float64{85, 90, 76}})
	assert.True(t, outcome.Unlocked)

	outcome = criteria.Evaluate(PlayerFacts{})
	assert.False(t, outcome.Unlocked, "a player with no scores has not passed every item")
}
