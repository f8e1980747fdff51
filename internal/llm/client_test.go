package llm

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateWith(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Role: "model", Parts: parts}},
	}}
}

func TestExtractTextFromResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, want: ""},
		{name: "non-text parts only", resp: candidateWith(genai.Blob{MIMEType: "image/png", Data: []byte{1, 2}}), want: ""},
		{name: "whitespace text", resp: candidateWith(genai.Text("  \n\t")), want: "  \n\t"},
		{name: "text parts joined", resp: candidateWith(genai.Text(`{"a":`), genai.Blob{MIMEType: "image/png"}, genai.Text(`1}`)), want: `{"a":1}`},
		{
			name: "first candidate only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("first")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}},
			}},
			want: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTextFromResponse(tt.resp))
		})
	}
}

func TestResponseText_EmptyReplies(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{name: "non-text parts only", resp: candidateWith(genai.Blob{MIMEType: "image/png", Data: []byte{1}})},
		{name: "whitespace text", resp: candidateWith(genai.Text("   "), genai.Text("\n"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := responseText(tt.resp, "gemini-2.5-flash")
			require.Error(t, err)
			assert.Empty(t, text)

			var emptyErr *EmptyResponseError
			require.True(t, errors.As(err, &emptyErr))
			assert.Equal(t, "gemini-2.5-flash", emptyErr.Model)
		})
	}
}

func TestResponseText_ReturnsText(t *testing.T) {
	text, err := responseText(candidateWith(genai.Text(` {"ok":true} `)), "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, ` {"ok":true} `, text)
}
