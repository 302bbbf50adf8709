// Package resolver provides the strategies that settle what the converter
// cannot match on its own: an interactive form, a file of answers and a
// strict policy that refuses to guess.
package resolver

import (
	"fmt"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/converter"
)

// Strategy names accepted by New.
const (
	StrategyInteractive = "interactive"
	StrategyFile        = "file"
	StrategyStrict      = "strict"
)

// Strategies lists the accepted strategy names.
var Strategies = []string{StrategyInteractive, StrategyFile, StrategyStrict}

// Options configures New.
type Options struct {
	Strategy string
	// AnswersFile is read by the file strategy.
	AnswersFile string
}

// New returns the resolver for opts.Strategy.
func New(opts Options) (converter.Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Strategy)) {
	case "", StrategyInteractive:
		return NewInteractive(), nil
	case StrategyFile:
		a, err := LoadAnswers(opts.AnswersFile)
		if err != nil {
			return nil, err
		}
		return &File{Answers: a}, nil
	case StrategyStrict:
		return Strict{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", opts.Strategy, strings.Join(Strategies, ", "))
	}
}

// indexOf finds answer among choices, case-insensitively.
func indexOf(choices []string, answer string) int {
	for i, c := range choices {
		if strings.EqualFold(c, strings.TrimSpace(answer)) {
			return i
		}
	}
	return -1
}
