// Package arb implements the arbitrage formulas the bot exposes.
package arb

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrZeroDenominator indicates that a formula cannot be evaluated because
// its denominator is zero.
var ErrZeroDenominator = errors.New("arb: zero denominator")

// Request holds the three numeric values of a calculation request, in the
// order the user sent them.
type Request struct {
	A float64
	B float64
	C float64
}

// ParseRequest parses a calculation request out of raw message text. The
// text must contain exactly three whitespace-separated tokens, each a
// finite floating-point number.
func ParseRequest(text string) (Request, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 3 {
		return Request{}, fmt.Errorf("arb: expected 3 values, got %d", len(tokens))
	}

	var values [3]float64
	for i, token := range tokens {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Request{}, fmt.Errorf("arb: parse value %q: %w", token, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Request{}, fmt.Errorf("arb: value %q is not finite", token)
		}
		values[i] = v
	}

	return Request{A: values[0], B: values[1], C: values[2]}, nil
}

// Complete computes how much must be staked on the opposite outcome to
// complete an existing position: shares1 is the share count bought with s1
// at price p1, and s2 is the cost of the same share count at price p2.
func Complete(s1, p1, p2 float64) (s2, shares1 float64, err error) {
	if p1 == 0 {
		return 0, 0, ErrZeroDenominator
	}

	shares1 = s1 / p1
	s2 = shares1 * p2
	return s2, shares1, nil
}

// Total splits a bankroll across both outcomes proportionally to their
// prices: s1 and s2 always sum to total.
func Total(total, p1, p2 float64) (s1, s2 float64, err error) {
	if p1+p2 == 0 {
		return 0, 0, ErrZeroDenominator
	}

	s1 = total * p1 / (p1 + p2)
	s2 = total * p2 / (p1 + p2)
	return s1, s2, nil
}
