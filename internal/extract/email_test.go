package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap-ai/quotescout/internal/model"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"sales@jarir.com", true},
		{"info+quotes@vendor.co.uk", true},
		{"first.last@sub.domain.sa", true},
		{"no-at-sign.com", false},
		{"spaces in@addr.com", false},
		{"trailing@dot.", false},
		{"@missing-local.com", false},
		{"short-tld@x.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}

func TestEmailExtract(t *testing.T) {
	e := NewEmailExtractor()

	c := model.Completion{
		Source: "https://b.example/contact",
		Text: `Based on the context, the contact addresses are:
		[{"email": "sales@b.example.com"}]
		You can also reach support@b.example.com for technical queries.`,
	}
	res := e.Extract(c)

	require.Len(t, res.Clean, 2)
	assert.Equal(t, "sales@b.example.com", res.Clean[0].Email)
	assert.Equal(t, "support@b.example.com", res.Clean[1].Email)
	for _, rec := range res.Clean {
		assert.Equal(t, "https://b.example/contact", rec.Source)
	}
}

func TestEmailExtractNoMatches(t *testing.T) {
	e := NewEmailExtractor()

	res := e.Extract(model.Completion{
		Source: "https://a.example",
		Text:   "No contact information was found in the context.",
	})
	assert.Empty(t, res.Clean)
}
