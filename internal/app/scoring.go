package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"dailydraft-service/internal/domain"
)

const (
	// QuestionsPerRound is fixed; every round asks exactly five questions.
	QuestionsPerRound    = 5
	MaxPointsPerQuestion = 10000
	MaxRoundScore        = QuestionsPerRound * MaxPointsPerQuestion
)

// emojiTiers maps a minimum percentage of the leader's value to the
// share-grid row for that bucket, checked in descending order.
var emojiTiers = []struct {
	pct float64
	row string
}{
	{100, "🟩🟩🟩🟩🟩"},
	{80, "🟩🟩🟩🟩🟨"},
	{60, "🟩🟩🟩🟨⬛"},
	{40, "🟩🟩🟨⬛⬛"},
	{20, "🟩🟨⬛⬛⬛"},
	{0.0001, "🟨⬛⬛⬛⬛"},
}

const emojiRowZero = "⬛⬛⬛⬛⬛"

// ScoreQuestion maps a guessed value against the leader's value to points on
// the 0..10000 scale. The ratio never exceeds 1, so guessing the leader (or
// somehow above) earns exactly MaxPointsPerQuestion. A zero leader value is
// degenerate data and cannot be scored.
func ScoreQuestion(guessed, leader int) (int, error) {
	if leader <= 0 {
		return 0, domain.ErrZeroLeader
	}
	if guessed < 0 {
		guessed = 0
	}
	if guessed > leader {
		guessed = leader
	}
	pct := float64(guessed) / float64(leader) * 100
	return int(math.Round(pct * (MaxPointsPerQuestion / 100.0))), nil
}

// EmojiRowForScore maps points to the share-grid row for its tier.
func EmojiRowForScore(points int) string {
	pct := float64(points) / (MaxPointsPerQuestion / 100.0)
	for _, tier := range emojiTiers {
		if pct >= tier.pct {
			return tier.row
		}
	}
	return emojiRowZero
}

// Aggregate sums per-question points, clamped to the round maximum.
func Aggregate(results []domain.GuessResult) int {
	total := 0
	for _, r := range results {
		total += r.Points
	}
	if total < 0 {
		total = 0
	}
	if total > MaxRoundScore {
		total = MaxRoundScore
	}
	return total
}

// FormatShareText renders the copyable result block: a header with the date,
// a score line, then one emoji row per question in play order.
func FormatShareText(date string, total, max int, results []domain.GuessResult) string {
	pct := 0
	if max > 0 {
		pct = int(float64(total) / float64(max) * 100)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily Draft NFL Trivia %s\n", date)
	fmt.Fprintf(&b, "Score: %s/%s (%d%%)\n\n", humanize.Comma(int64(total)), humanize.Comma(int64(max)), pct)
	for _, r := range results {
		row := r.EmojiRow
		if row == "" {
			row = emojiRowZero
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
