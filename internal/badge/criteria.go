package badge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EvaluationError marks a definition whose criteria payload could not be
// parsed or validated. The engine logs it and moves on; it never aborts a
// batch.
type EvaluationError struct {
	AchievementID uint
	Err           error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("achievement %d: invalid criteria: %v", e.AchievementID, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

var (
	errNoCriteria      = errors.New("empty criteria payload")
	errUnknownKind     = errors.New("unknown criteria kind")
	errMissingCount    = errors.New("completion_count requires a positive count")
	errMissingDays     = errors.New("consecutive_days requires a positive day count")
	errMissingMinScore = errors.New("score requires a positive min_score")
)

// Criteria is the decoded form of an achievement's JSON criteria payload,
// one variant per criteria type and kind.
type Criteria struct {
	Kind string

	// completion_count
	Count int
	// consecutive_days
	Days int
	// score
	MinScore float64
	AllItems bool
}

// rawCriteria mirrors the stored JSON shape.
type rawCriteria struct {
	Type            string   `json:"type"`
	Count           *int     `json:"count"`
	ConsecutiveDays *int     `json:"consecutive_days"`
	MinScore        *float64 `json:"min_score"`
	AllItems        bool     `json:"all_items"`
}

// ParseCriteria decodes and validates the criteria payload of an automatic
// achievement. Manual achievements have no parsable criteria.
func ParseCriteria(a *Achievement) (*Criteria, error) {
	if len(a.CriteriaValue) == 0 {
		return nil, &EvaluationError{AchievementID: a.ID, Err: errNoCriteria}
	}

	var raw rawCriteria
	if err := json.Unmarshal(a.CriteriaValue, &raw); err != nil {
		return nil, &EvaluationError{AchievementID: a.ID, Err: err}
	}

	switch a.CriteriaType {
	case CriteriaAutoTask:
		switch raw.Type {
		case KindCompletionCount:
			if raw.Count == nil || *raw.Count <= 0 {
				return nil, &EvaluationError{AchievementID: a.ID, Err: errMissingCount}
			}
			return &Criteria{Kind: KindCompletionCount, Count: *raw.Count}, nil
		case KindConsecutiveDays:
			if raw.ConsecutiveDays == nil || *raw.ConsecutiveDays <= 0 {
				return nil, &EvaluationError{AchievementID: a.ID, Err: errMissingDays}
			}
			return &Criteria{Kind: KindConsecutiveDays, Days: *raw.ConsecutiveDays}, nil
		default:
			return nil, &EvaluationError{AchievementID: a.ID, Err: fmt.Errorf("%w: %q", errUnknownKind, raw.Type)}
		}

	case CriteriaAutoAssessment:
		// Historic payloads default the kind to "score".
		if raw.Type != "" && raw.Type != KindScore {
			return nil, &EvaluationError{AchievementID: a.ID, Err: fmt.Errorf("%w: %q", errUnknownKind, raw.Type)}
		}
		if raw.MinScore == nil || *raw.MinScore <= 0 {
			return nil, &EvaluationError{AchievementID: a.ID, Err: errMissingMinScore}
		}
		return &Criteria{Kind: KindScore, MinScore: *raw.MinScore, AllItems: raw.AllItems}, nil

	default:
		return nil, &EvaluationError{AchievementID: a.ID, Err: fmt.Errorf("criteria type %q is not auto-evaluated", a.CriteriaType)}
	}
}

// PlayerFacts is the aggregated history the evaluator classifies against.
// It is derived on demand, never persisted.
type PlayerFacts struct {
	// Number of distinct tasks with at least one verified completion.
	CompletedTaskCount int
	// Longest current streak across the player's daily tasks.
	MaxDailyStreak int
	// Every assessment score on record for the player.
	Scores []float64
}

// Outcome is the evaluator's verdict for one (player, achievement) pair.
type Outcome struct {
	Unlocked bool
	Progress int
}

// Evaluate classifies the facts against the criteria. Pure; no side effects.
func (c *Criteria) Evaluate(facts PlayerFacts) Outcome {
	switch c.Kind {
	case KindCompletionCount:
		return thresholdOutcome(facts.CompletedTaskCount, c.Count)

	case KindConsecutiveDays:
		return thresholdOutcome(facts.MaxDailyStreak, c.Days)

	case KindScore:
		// Binary: no partial-progress model for assessment criteria.
		if c.AllItems {
			if len(facts.Scores) == 0 {
				return Outcome{}
			}
			for _, score := range facts.Scores {
				if score < c.MinScore {
					return Outcome{}
				}
			}
			return Outcome{Unlocked: true, Progress: FullProgress}
		}
		for _, score := range facts.Scores {
			if score >= c.MinScore {
				return Outcome{Unlocked: true, Progress: FullProgress}
			}
		}
		return Outcome{}

	default:
		return Outcome{}
	}
}

func thresholdOutcome(have, need int) Outcome {
	if have >= need {
		return Outcome{Unlocked: true, Progress: FullProgress}
	}
	progress := have * FullProgress / need
	if progress > FullProgress {
		progress = FullProgress
	}
	return Outcome{Progress: progress}
}
