package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(DefaultToxicityThreshold)
	require.NoError(t, err)
	return a
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Positive, Classify(4))
	assert.Equal(t, Negative, Classify(-1))
	assert.Equal(t, Neutral, Classify(0))
}

func TestAnalyzePositive(t *testing.T) {
	a := newAnalyzer(t)
	res := a.Analyze("The food is good and the rooms are clean, but a bit noisy.")
	assert.Equal(t, 4, res.Score)
	assert.Equal(t, []string{"good", "clean"}, res.Positive)
	assert.Equal(t, []string{"noisy"}, res.Negative)
	assert.Equal(t, Positive, Classify(res.Score))
}

func TestAnalyzeNeutral(t *testing.T) {
	a := newAnalyzer(t)
	assert.Equal(t, 0, a.Analyze("").Score)
	assert.Equal(t, Neutral, Classify(a.Analyze("The PG is on the second floor.").Score))
}

func TestAnalyzeNegation(t *testing.T) {
	a := newAnalyzer(t)
	assert.Equal(t, -3, a.Analyze("The food is not good").Score)
	assert.Equal(t, 3, a.Analyze("honestly not bad at all").Score)
}

func TestToxicGate(t *testing.T) {
	a := newAnalyzer(t)

	mild := a.Analyze("The bathroom was bad")
	assert.Equal(t, -3, mild.Score)
	assert.False(t, a.IsToxic(mild.Score), "threshold is exclusive")

	toxic := a.Analyze("Terrible owner, awful food, worst place ever")
	assert.Equal(t, -9, toxic.Score)
	assert.True(t, a.IsToxic(toxic.Score))
}

func TestCustomThreshold(t *testing.T) {
	a, err := New(-10)
	require.NoError(t, err)
	assert.False(t, a.IsToxic(-9))
	assert.Equal(t, -10, a.Threshold())
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "like", "it"}, Tokenize("Don't LIKE it!!"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestParseLexiconRejectsMalformedLines(t *testing.T) {
	_, err := parseLexicon("good 3\n")
	assert.Error(t, err)

	lex, err := parseLexicon("# comment\n\ngood\t3\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"good": 3}, lex)
}

func TestEmbeddedLexiconCoversCommonInsults(t *testing.T) {
	a := newAnalyzer(t)
	assert.Greater(t, len(a.lexicon), 3000)
	assert.NotContains(t, a.lexicon, "affordable")

	tests := []struct {
		text  string
		score int
	}{
		{"dreadful miserable hell hole, unacceptable", -12},
		{"the warden is a jerk and a moron, pissed off", -10},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := a.Analyze(tt.text)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, Negative, Classify(res.Score))
			assert.True(t, a.IsToxic(res.Score))
		})
	}
}
