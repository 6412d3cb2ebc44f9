package badge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FactSource supplies a player's aggregated history. Implemented by
// training.TrainingManager.
type FactSource interface {
	DistinctCompletedCount(ctx context.Context, playerID uint) (int, error)
	MaxDailyStreak(ctx context.Context, playerID uint) (int, error)
	PlayerScores(ctx context.Context, playerID uint) ([]float64, error)
}

// Roster lists the players to evaluate. Implemented by club.RosterManager.
type Roster interface {
	PlayerIDs(ctx context.Context) ([]uint, error)
}

// Engine walks the catalog for each player, classifies every automatic
// achievement as awarded, progressed, or skipped, and writes the result to
// the ledger. It is a batch operation: one bad definition or one failing
// player never stops the rest of the run.
type Engine struct {
	catalog *Catalog
	facts   FactSource
	roster  Roster
	ledger  *Ledger
	logger  *zap.Logger
	workers int
}

func NewEngine(catalog *Catalog, facts FactSource, roster Roster, ledger *Ledger, logger *zap.Logger, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		catalog: catalog,
		facts:   facts,
		roster:  roster,
		ledger:  ledger,
		logger:  logger,
		workers: workers,
	}
}

// PlayerResult lists what one evaluation pass did for a player.
type PlayerResult struct {
	PlayerID   uint
	Awarded    []uint // achievement IDs newly completed this run
	Progressed []uint // achievement IDs whose stored progress rose
	Skipped    []uint // achievement IDs gated by an unmet prerequisite
	Errored    []uint // achievement IDs with malformed criteria
}

// Summary aggregates a whole batch run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Players       int
	FailedPlayers int
	Awarded       int
	Progressed    int
	Skipped       int
	Errored       int
}

// EvaluatePlayer evaluates every public automatic achievement for one
// player. A facts fetch failure aborts this player only.
func (e *Engine) EvaluatePlayer(ctx context.Context, playerID uint) (*PlayerResult, error) {
	facts, err := e.buildFacts(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("facts for player %d: %w", playerID, err)
	}

	result := &PlayerResult{PlayerID: playerID}
	for _, def := range e.catalog.Auto() {

		existing, err := e.ledger.Get(ctx, playerID, def.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Awarded() {
			continue
		}

		ok, err := e.prerequisitesMet(ctx, playerID, &def)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Sequencing is enforced here, not only at display time: a gated
			// achievement records no progress no matter how well its own
			// criteria are met.
			result.Skipped = append(result.Skipped, def.ID)
			continue
		}

		criteria, err := ParseCriteria(&def)
		if err != nil {
			e.logger.Warn("skipping achievement with invalid criteria",
				zap.Uint("achievement_id", def.ID),
				zap.Uint("player_id", playerID),
				zap.Error(err))
			result.Errored = append(result.Errored, def.ID)
			continue
		}

		outcome := criteria.Evaluate(*facts)
		switch {
		case outcome.Unlocked:
			record, changed, err := e.ledger.Award(ctx, playerID, def.ID)
			if err != nil {
				return nil, err
			}
			if changed {
				result.Awarded = append(result.Awarded, def.ID)
				e.logger.Info("achievement awarded",
					zap.Uint("player_id", playerID),
					zap.Uint("achievement_id", def.ID),
					zap.String("achievement", def.Name),
					zap.Time("awarded_date", record.AwardedDate.Time))
			}

		case def.CriteriaType == CriteriaAutoTask:
			_, changed, err := e.ledger.Upsert(ctx, playerID, def.ID, outcome.Progress, "")
			if err != nil {
				return nil, err
			}
			if changed {
				result.Progressed = append(result.Progressed, def.ID)
			}

			// Assessment criteria are binary; nothing to record short of an
			// unlock.
		}
	}
	return result, nil
}

// EvaluateAll evaluates every player, fanning out across a bounded worker
// pool. Players are independent; one failure is logged and counted, never
// propagated.
func (e *Engine) EvaluateAll(ctx context.Context) (*Summary, error) {
	playerIDs, err := e.roster.PlayerIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Players:   len(playerIDs),
	}
	e.logger.Info("achievement evaluation started",
		zap.String("run_id", summary.RunID),
		zap.Int("players", len(playerIDs)),
		zap.Int("definitions", e.catalog.Len()))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for _, playerID := range playerIDs {
		playerID := playerID
		group.Go(func() error {
			result, err := e.EvaluatePlayer(groupCtx, playerID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.FailedPlayers++
				e.logger.Error("player evaluation failed",
					zap.String("run_id", summary.RunID),
					zap.Uint("player_id", playerID),
					zap.Error(err))
				return nil
			}
			summary.Awarded += len(result.Awarded)
			summary.Progressed += len(result.Progressed)
			summary.Skipped += len(result.Skipped)
			summary.Errored += len(result.Errored)
			return nil
		})
	}
	// Worker funcs swallow per-player errors, so this only reflects ctx
	// cancellation.
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary.FinishedAt = time.Now().UTC()
	e.logger.Info("achievement evaluation finished",
		zap.String("run_id", summary.RunID),
		zap.Int("awarded", summary.Awarded),
		zap.Int("progressed", summary.Progressed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
		zap.Int("failed_players", summary.FailedPlayers),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

func (e *Engine) buildFacts(ctx context.Context, playerID uint) (*PlayerFacts, error) {
	completed, err := e.facts.DistinctCompletedCount(ctx, playerID)
	if err != nil {
		return nil, err
	}
	streak, err := e.facts.MaxDailyStreak(ctx, playerID)
	if err != nil {
		return nil, err
	}
	scores, err := e.facts.PlayerScores(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &PlayerFacts{
		CompletedTaskCount: completed,
		MaxDailyStreak:     streak,
		Scores:             scores,
	}, nil
}

func (e *Engine) prerequisitesMet(ctx context.Context, playerID uint, def *Achievement) (bool, error) {
	for _, prereq := range def.Prerequisites {
		record, err := e.ledger.Get(ctx, playerID, prereq.ID)
		if err != nil {
			return false, err
		}
		if record == nil || !record.Awarded() {
			return false, nil
		}
	}
	return true, nil
}
