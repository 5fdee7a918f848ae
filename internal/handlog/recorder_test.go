package handlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/poker"
)

func playLoggedHand(t *testing.T, rec *Recorder) *engine.Hand {
	t.Helper()

	deck, err := poker.NewStackedDeck(
		mustCard(t, "As"), mustCard(t, "Ad"), // seat 0
		mustCard(t, "Ks"), mustCard(t, "Kd"), // seat 1
		mustCard(t, "Ah"), mustCard(t, "7d"), mustCard(t, "2c"), // flop
		mustCard(t, "5s"), // turn
		mustCard(t, "9h"), // river
	)
	require.NoError(t, err)

	hand, err := engine.NewHand(nil, []string{"Alice", "Bob"}, 0, 5, 10,
		engine.WithUniformChips(1000),
		engine.WithDeck(deck),
		engine.WithSubscriber(rec))
	require.NoError(t, err)

	// Button calls, big blind checks, then check it down to showdown.
	require.NoError(t, hand.ExecuteAction(0, engine.Call, 0))
	require.NoError(t, hand.ExecuteAction(1, engine.Check, 0))
	for !hand.IsComplete() {
		require.NoError(t, hand.ExecuteAction(hand.ActionOn(), engine.Check, 0))
	}
	return hand
}

func mustCard(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	require.NoError(t, err)
	return c
}

func TestRecorderRendersFullHand(t *testing.T) {
	rec := NewRecorder("t-001", 5, 10)
	hand := playLoggedHand(t, rec)

	rec.RevealHoleCards(0, hand.HoleCards(0))
	rec.RevealHoleCards(1, hand.HoleCards(1))
	out := rec.Render()

	assert.Contains(t, out, "=== HAND t-001 ===")
	assert.Contains(t, out, "Blinds: 5/10")
	assert.Contains(t, out, "STARTING POSITIONS:")
	assert.Contains(t, out, "Seat 0: Alice (1000 chips) (button)")
	assert.Contains(t, out, "HOLE CARDS:")
	assert.Contains(t, out, "*** PRE-FLOP ***")
	assert.Contains(t, out, "Alice: posts small blind 5")
	assert.Contains(t, out, "Bob: posts big blind 10")
	assert.Contains(t, out, "*** FLOP ***")
	assert.Contains(t, out, "Board: [Ah 7d 2c]")
	assert.Contains(t, out, "*** RIVER ***")
	assert.Contains(t, out, "Board: [Ah 7d 2c 5s 9h]")
	assert.Contains(t, out, "SUMMARY:")
	assert.Contains(t, out, "Alice wins 20 with Three of a Kind")
}

func TestRecorderCapturesPreBlindStacks(t *testing.T) {
	rec := NewRecorder("t-002", 5, 10)
	playLoggedHand(t, rec)

	out := rec.Render()
	// Starting stacks are reported before the blinds came out.
	assert.Contains(t, out, "Seat 0: Alice (1000 chips)")
	assert.Contains(t, out, "Seat 1: Bob (1000 chips)")
}

func TestRecorderNotesThinking(t *testing.T) {
	rec := NewRecorder("t-003", 5, 10)
	rec.NoteThinking(0, "pot odds are fine")
	playLoggedHand(t, rec)

	out := rec.Render()
	assert.Contains(t, out, `Alice: thinks "pot odds are fine"`)
}

func TestFileWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(filepath.Join(dir, "hands"))

	rec := NewRecorder("t-004", 5, 10)
	playLoggedHand(t, rec)
	require.NoError(t, rec.Save(w))

	data, err := os.ReadFile(filepath.Join(dir, "hands", "hand_t-004.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== HAND t-004 ===")
}
