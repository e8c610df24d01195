// Package score turns raw quiz tallies into an IQ-style score.
package score

import (
	"fmt"
	"math"

	"github.com/iqpremium/iqpay/internal/core/domain"
)

const (
	DefaultCorrect = 21
	DefaultTotal   = 42
)

type band struct {
	min   int
	label string
}

// bands are ordered from the highest threshold down.
var bands = []band{
	{min: 131, label: "Genius"},
	{min: 121, label: "Brilliant"},
	{min: 111, label: "High intelligence"},
	{min: 101, label: "Above average"},
	{min: 91, label: "Average"},
	{min: 81, label: "Developing"},
}

const lowestLabel = "Train your mind"

// Compute maps correct answers out of total to a score and its label.
// The score is round(100 + 15*(correct - total/2) / (total*0.18)).
func Compute(correct, total int) (domain.Result, error) {
	if total <= 0 || correct < 0 || correct > total {
		return domain.Result{}, fmt.Errorf("tallies %d/%d: %w", correct, total, domain.ErrBadRequest)
	}

	t := float64(total)
	raw := 100 + 15*(float64(correct)-t/2)/(t*0.18)
	s := int(math.Round(raw))

	return domain.Result{Score: s, Label: Label(s)}, nil
}

func Label(s int) string {
	for _, b := range bands {
		if s >= b.min {
			return b.label
		}
	}
	return lowestLabel
}

// ForOrder computes the result from the tallies recorded on the order,
// falling back to the defaults when none were recorded.
func ForOrder(o *domain.Order) (domain.Result, error) {
	if !o.HasTallies() {
		return Compute(DefaultCorrect, DefaultTotal)
	}
	return Compute(o.CorrectCount, o.TotalCount)
}
