package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/internal/handlog"
	"github.com/yeogirlyun/pokertrainer/internal/replay"
	"github.com/yeogirlyun/pokertrainer/internal/sessionid"
	"github.com/yeogirlyun/pokertrainer/poker"
)

// Review replays recorded hands for study: events surface to attached
// subscribers and the rendered hand log is returned alongside the
// finished hand.
type Review struct {
	logger      *log.Logger
	adapterOpts []replay.AdapterOption
}

// NewReview creates a review session.
func NewReview(logger *log.Logger, adapterOpts ...replay.AdapterOption) *Review {
	return &Review{logger: logger.WithPrefix("review"), adapterOpts: adapterOpts}
}

// ReplayFile replays one recorded hand from disk.
func (r *Review) ReplayFile(path string, subs ...engine.Subscriber) (*engine.Hand, string, error) {
	record, err := replay.Load(path)
	if err != nil {
		return nil, "", err
	}
	return r.Replay(record, subs...)
}

// Replay replays a parsed record. Known hole cards are revealed in the
// returned hand log; this is review, not live play.
func (r *Review) Replay(record *replay.HandRecord, subs ...engine.Subscriber) (*engine.Hand, string, error) {
	id := record.ID
	if id == "" {
		id = sessionid.Generate()
	}
	recorder := handlog.NewRecorder(id, record.SmallBlind, record.BigBlind)
	for i, seat := range record.Seats {
		if len(seat.HoleCards) > 0 {
			recorder.RevealHoleCards(i, poker.NewHand(seat.HoleCards...))
		}
	}

	opts := []engine.HandOption{
		engine.WithLogger(r.logger),
		engine.WithSubscriber(recorder),
	}
	for _, s := range subs {
		opts = append(opts, engine.WithSubscriber(s))
	}

	adapterOpts := append([]replay.AdapterOption{replay.WithLogger(r.logger)}, r.adapterOpts...)
	hand, err := replay.Run(record, adapterOpts, opts...)
	if err != nil {
		return hand, "", err
	}

	r.logger.Info("replayed hand", "id", id, "pot", potTotal(hand))
	return hand, recorder.Render(), nil
}

// VerifyResult is the outcome of replaying one recorded hand file.
type VerifyResult struct {
	Path        string
	Err         error
	FinalStacks []int
}

// VerifyDir replays every .toml record under dir concurrently and
// reports per-file reconciliation failures. A failing record never
// stops the batch.
func (r *Review) VerifyDir(ctx context.Context, dir string, workers int) ([]VerifyResult, error) {
	paths, err := recordPaths(dir)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]VerifyResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.verifyOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			r.logger.Error("verification failed", "path", res.Path, "error", res.Err)
		}
	}
	r.logger.Info("verification complete", "records", len(results), "failed", failed)
	return results, nil
}

func (r *Review) verifyOne(path string) VerifyResult {
	result := VerifyResult{Path: path}

	record, err := replay.Load(path)
	if err != nil {
		result.Err = err
		return result
	}
	hand, err := replay.Run(record, r.adapterOpts)
	if err != nil {
		result.Err = err
		return result
	}
	if !hand.IsComplete() {
		result.Err = fmt.Errorf("replay left the hand unfinished on %s", hand.Street())
		return result
	}

	for _, seat := range hand.Players() {
		result.FinalStacks = append(result.FinalStacks, seat.Chips)
	}
	return result
}

func recordPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read record directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".toml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func potTotal(hand *engine.Hand) int {
	result := hand.Result()
	if result == nil {
		return 0
	}
	total := 0
	for _, share := range result.PotShares {
		total += share
	}
	return total
}
