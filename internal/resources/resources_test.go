package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopics(t *testing.T) {
	got := Topics()

	require.Len(t, got, 4)
	assert.Equal(t, Topic{Title: "What is Blockchain?", Summary: "Learn the fundamentals of blockchain technology"}, got[0])
	assert.Equal(t, "How to Trade Cryptocurrencies?", got[1].Title)
	assert.Equal(t, "Technical and fundamental analysis", got[2].Summary)
	assert.Equal(t, "Best practices for securing your assets", got[3].Summary)

	got[0].Title = "changed"
	assert.Equal(t, "What is Blockchain?", Topics()[0].Title, "callers get a copy")
}

func TestHTML(t *testing.T) {
	html, err := HTML()

	require.NoError(t, err)
	assert.Contains(t, html, "<h3>Understanding Market Trends</h3>")
	assert.Contains(t, html, "<p>Best practices for securing your assets</p>")
	assert.NotContains(t, html, "<h1>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("notty", 80)

	require.NoError(t, err)
	assert.Contains(t, out, "Cryptocurrency Security")
	assert.Contains(t, out, "Basic and advanced trading strategies")
}
