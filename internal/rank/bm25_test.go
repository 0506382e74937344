package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap-ai/quotescout/internal/model"
)

func corpus() []model.Chunk {
	return []model.Chunk{
		{Content: "Shipping policy and returns. Contact our support team for help.", Source: "https://a.example/policy"},
		{Content: "HP LaserJet M110we printer, compact laser printer for home office. Price SAR 449.", Source: "https://a.example/product"},
		{Content: "About us. Our company was founded in 2010 and serves the region.", Source: "https://b.example/about"},
		{Content: "Contact email: sales@b.example. Send an email for bulk pricing.", Source: "https://b.example/contact"},
	}
}

func TestTopKRelevanceOrder(t *testing.T) {
	r := New(corpus())

	ranked := r.TopK("hp laserjet printer price", 4)
	require.Len(t, ranked, 4)
	assert.Equal(t, "https://a.example/product", ranked[0].Source)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestTopKEmailProbe(t *testing.T) {
	r := New(corpus())

	ranked := r.TopK("email", 1)
	require.Len(t, ranked, 1)
	assert.Equal(t, "https://b.example/contact", ranked[0].Source)
}

func TestTopKCapsAtCorpusSize(t *testing.T) {
	r := New(corpus())

	assert.Len(t, r.TopK("printer", 20), 4)
	assert.Len(t, r.TopK("printer", 2), 2)
}

func TestTopKEmptyInputs(t *testing.T) {
	assert.Nil(t, New(nil).TopK("printer", 5))
	assert.Nil(t, New(corpus()).TopK("printer", 0))
}

func TestTopKDeterministicTies(t *testing.T) {
	// No query term appears in any chunk, so every score is zero and
	// the ranking must fall back to insertion order.
	chunks := corpus()
	r := New(chunks)

	for n := 0; n < 10; n++ {
		ranked := r.TopK("zzzznonexistent", 4)
		require.Len(t, ranked, 4)
		for i, rc := range ranked {
			assert.Equal(t, chunks[i].Source, rc.Source)
			assert.Zero(t, rc.Score)
		}
	}
}

func TestTokenizeStopwordsAndCase(t *testing.T) {
	r := New(nil)

	tokens := r.tokenize("The Price of the HP LaserJet is SAR 449!")
	assert.Equal(t, []string{"price", "hp", "laserjet", "sar", "449"}, tokens)
}
