package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestHumanProxySubmittedDecision(t *testing.T) {
	mockClock := quartz.NewMock(t)
	h := NewHumanProxy(mockClock, 30*time.Second, quietLogger())

	view := engine.TableView{
		Seat:         1,
		ValidActions: []engine.ValidAction{{Action: engine.Fold}, {Action: engine.Call}},
	}

	done := make(chan engine.Decision, 1)
	go func() {
		d, err := h.Decide(view)
		require.NoError(t, err)
		done <- d
	}()

	prompt := <-h.Prompts()
	assert.Equal(t, 1, prompt.Seat)
	h.Submit(engine.Decision{Action: engine.Call})

	d := <-done
	assert.Equal(t, engine.Call, d.Action)
}

func TestHumanProxyTimeoutFoldsFacingBet(t *testing.T) {
	mockClock := quartz.NewMock(t)
	trap := mockClock.Trap().AfterFunc()
	defer trap.Close()

	h := NewHumanProxy(mockClock, 30*time.Second, quietLogger())
	view := engine.TableView{
		Seat:         0,
		ToCall:       50,
		ValidActions: []engine.ValidAction{{Action: engine.Fold}, {Action: engine.Call}},
	}

	done := make(chan engine.Decision, 1)
	go func() {
		d, err := h.Decide(view)
		require.NoError(t, err)
		done <- d
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	call := trap.MustWait(ctx)
	call.Release()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	d := <-done
	assert.Equal(t, engine.Fold, d.Action)
	assert.Equal(t, "timed out", d.Reasoning)
}

func TestHumanProxyTimeoutChecksWhenFree(t *testing.T) {
	mockClock := quartz.NewMock(t)
	trap := mockClock.Trap().AfterFunc()
	defer trap.Close()

	h := NewHumanProxy(mockClock, 30*time.Second, quietLogger())
	view := engine.TableView{
		Seat:         0,
		ValidActions: []engine.ValidAction{{Action: engine.Check}, {Action: engine.Bet, MinAmount: 10, MaxAmount: 100}},
	}

	done := make(chan engine.Decision, 1)
	go func() {
		d, err := h.Decide(view)
		require.NoError(t, err)
		done <- d
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	call := trap.MustWait(ctx)
	call.Release()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	d := <-done
	assert.Equal(t, engine.Check, d.Action)
}

func TestPracticeRunConservesChips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Seed = 7
	cfg.Session.Hands = 20

	p, err := NewPractice(cfg, quartz.NewReal(), quietLogger())
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))

	total := 0
	for _, chips := range p.Stacks() {
		total += chips
	}
	assert.Equal(t, 2*cfg.Session.StartingStack, total)
}

func TestPracticeIsDeterministicWithSeed(t *testing.T) {
	run := func() []int {
		cfg := DefaultConfig()
		cfg.Session.Seed = 99
		cfg.Session.Hands = 10

		p, err := NewPractice(cfg, quartz.NewReal(), quietLogger())
		require.NoError(t, err)
		require.NoError(t, p.Run(context.Background()))
		return p.Stacks()
	}

	assert.Equal(t, run(), run())
}

func TestPracticeWritesHandLogs(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Session.Seed = 3
	cfg.Session.Hands = 1
	cfg.Session.HandLogDir = dir

	p, err := NewPractice(cfg, quartz.NewReal(), quietLogger())
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hand_000001.txt", entries[0].Name())
}

const verifyRecord = `
[hand]
id = "v-001"
small_blind = 5.0
big_blind = 10.0
button = 0
amount_mode = "total"

[[seats]]
name = "Alice"
stack = 1000.0

[[seats]]
name = "Bob"
stack = 1000.0

[[actions.preflop]]
seat = 0
verb = "raise"
amount = 30.0

[[actions.preflop]]
seat = 1
verb = "fold"
`

func TestReviewReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hand.toml")
	require.NoError(t, os.WriteFile(path, []byte(verifyRecord), 0644))

	r := NewReview(quietLogger())
	hand, rendered, err := r.ReplayFile(path)
	require.NoError(t, err)
	require.True(t, hand.IsComplete())

	assert.Contains(t, rendered, "=== HAND v-001 ===")
	assert.Contains(t, rendered, "Bob: folds")
	assert.Equal(t, 1010, hand.Players()[0].Chips)
}

func TestVerifyDirReportsPerFileFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.toml"), []byte(verifyRecord), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("this is not toml {"), 0644))

	r := NewReview(quietLogger())
	results, err := r.VerifyDir(context.Background(), dir, 4)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Paths come back sorted: bad.toml first.
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []int{1010, 990}, results[1].FinalStacks)
}
