// Package sentiment scores free text against the AFINN-165 word lexicon.
package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Label is the tone assigned to a piece of text.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// DefaultToxicityThreshold rejects text scoring strictly below it.
const DefaultToxicityThreshold = -3

//go:embed afinn.txt
var afinn string

var negators = map[string]struct{}{
	"not": {}, "never": {}, "no": {}, "dont": {}, "don't": {}, "didnt": {}, "didn't": {},
	"isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {}, "cant": {}, "can't": {},
	"wont": {}, "won't": {}, "doesnt": {}, "doesn't": {}, "arent": {}, "aren't": {},
}

// Result is the outcome of scoring a text.
type Result struct {
	Score    int      `json:"score"`
	Positive []string `json:"positive,omitempty"`
	Negative []string `json:"negative,omitempty"`
}

// Analyzer holds a lexicon and the toxicity threshold.
type Analyzer struct {
	lexicon   map[string]int
	threshold int
}

// New builds an Analyzer from the embedded lexicon.
func New(threshold int) (*Analyzer, error) {
	lex, err := parseLexicon(afinn)
	if err != nil {
		return nil, err
	}
	return &Analyzer{lexicon: lex, threshold: threshold}, nil
}

func parseLexicon(src string) (map[string]int, error) {
	lex := make(map[string]int)
	sc := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, weight, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon line %d: missing tab separator", line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(word)] = n
	}
	return lex, sc.Err()
}

// Tokenize lower-cases text and splits it into words. Apostrophes stay inside words.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// Analyze sums lexicon weights over the words of text. A weight is negated
// when the preceding word is a negator ("not good" scores like "bad").
func (a *Analyzer) Analyze(text string) Result {
	var res Result
	tokens := Tokenize(text)
	for i, tok := range tokens {
		weight, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := negators[tokens[i-1]]; neg {
				weight = -weight
			}
		}
		res.Score += weight
		if weight > 0 {
			res.Positive = append(res.Positive, tok)
		} else if weight < 0 {
			res.Negative = append(res.Negative, tok)
		}
	}
	return res
}

// IsToxic reports whether score falls below the configured threshold.
func (a *Analyzer) IsToxic(score int) bool {
	return score < a.threshold
}

// Threshold returns the toxicity threshold.
func (a *Analyzer) Threshold() int {
	return a.threshold
}

// Classify maps a polarity score to a Label.
func Classify(score int) Label {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}
