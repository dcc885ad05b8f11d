package earmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClassifier() *Classifier {
	return NewClassifier([]string{"Dracut", "Springfield"})
}

const localEarmarkText = `47 Dracut Senior Center provided further, that not less
than $50,000 shall be expended for the renovation of the Veterans Memorial
Park playground in the town of Dracut`

func TestClassifyLocalEarmark(t *testing.T) {
	c := testClassifier()
	amount, ok := ExtractAmount(localEarmarkText)
	require.True(t, ok)

	cls := c.Classify(Amendment{Number: "47", RawText: localEarmarkText, Amount: amount})
	assert.True(t, cls.IsEarmark)
	assert.GreaterOrEqual(t, cls.Confidence, 0.9)
	assert.True(t, cls.Geographic)
	assert.True(t, cls.Project)
	assert.True(t, cls.AmountInRange)
	assert.Equal(t, SourceRules, cls.Source)
}

func TestClassifyRoutineLanguage(t *testing.T) {
	c := testClassifier()
	cls := c.Classify(Amendment{Description: `For the operating expenses of the
department of public health; provided, that the department shall submit an
annual report on statewide eligibility formula rates paid`})

	assert.False(t, cls.IsEarmark)
	assert.True(t, cls.Routine)
	assert.Less(t, cls.Confidence, 0.5)
}

func TestClassifyLargeAppropriationPenalized(t *testing.T) {
	c := testClassifier()
	small := c.Classify(Amendment{
		Description: "provided, that $500,000 shall be expended for the Dracut sewer upgrade",
		Amount:      500_000,
	})
	large := c.Classify(Amendment{
		Description: "provided, that $50,000,000 shall be expended for the Dracut sewer upgrade",
		Amount:      50_000_000,
	})

	assert.True(t, small.IsEarmark)
	assert.True(t, small.AmountInRange)
	assert.False(t, large.AmountInRange)
	assert.Less(t, large.Score, small.Score)
}

func TestAmountConfidence(t *testing.T) {
	_, ok := amountConfidence(1_000)
	assert.False(t, ok, "below the earmark floor")

	conf, ok := amountConfidence(100_000)
	require.True(t, ok)
	assert.InDelta(t, 0.9, conf, 1e-9)

	conf, ok = amountConfidence(2_000_000)
	require.True(t, ok)
	assert.InDelta(t, 0.6, conf, 1e-9)

	_, ok = amountConfidence(10_000_000)
	assert.False(t, ok, "above the earmark ceiling")
}

// stubAdvisor records whether it was consulted and returns a fixed
// verdict.
type stubAdvisor struct {
	advice Advice
	err    error
	called bool
}

func (s *stubAdvisor) Advise(context.Context, string, float64) (Advice, error) {
	s.called = true
	return s.advice, s.err
}

func TestClassifyAllEscalatesAmbiguous(t *testing.T) {
	c := testClassifier()
	ambiguous := Amendment{Number: "9", Description: "$75,000 for improvements in Anytown", Amount: 75_000}

	// Without an advisor the weak score keeps it out.
	assert.Empty(t, c.ClassifyAll(context.Background(), []Amendment{ambiguous}, nil))

	advisor := &stubAdvisor{advice: Advice{IsEarmark: true, Confidence: 0.85, Reasoning: "names a specific local project"}}
	earmarks := c.ClassifyAll(context.Background(), []Amendment{ambiguous}, advisor)
	require.True(t, advisor.called)
	require.Len(t, earmarks, 1)
	assert.Equal(t, SourceAdvisor, earmarks[0].Classification.Source)
	assert.InDelta(t, 0.85, earmarks[0].Classification.Confidence, 1e-9)
}

func TestClassifyAllSkipsAdvisorWhenConfident(t *testing.T) {
	c := testClassifier()
	advisor := &stubAdvisor{advice: Advice{IsEarmark: false, Confidence: 0.99}}

	earmarks := c.ClassifyAll(context.Background(),
		[]Amendment{{Number: "47", RawText: localEarmarkText, Amount: 50_000}}, advisor)
	assert.False(t, advisor.called, "confident rules verdict needs no second opinion")
	require.Len(t, earmarks, 1)
	assert.Equal(t, SourceRules, earmarks[0].Classification.Source)
}

func TestClassifyAllAdvisorFailureKeepsRulesVerdict(t *testing.T) {
	c := testClassifier()
	advisor := &stubAdvisor{err: assert.AnError}
	ambiguousEarmark := Amendment{
		Number:      "12",
		Description: "$20,000 shall be expended for repair of the memorial flagpole in Anytown",
		Amount:      20_000,
	}

	earmarks := c.ClassifyAll(context.Background(), []Amendment{ambiguousEarmark}, advisor)
	require.True(t, advisor.called)
	require.Len(t, earmarks, 1, "advisor failure must not drop the rules verdict")
	assert.Equal(t, SourceRules, earmarks[0].Classification.Source)
}
