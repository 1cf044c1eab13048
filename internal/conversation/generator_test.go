package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/parley/internal/dialogue"
)

type completionRecord struct {
	status        string
	input, output int32
}

type recordingCompletions struct {
	records []completionRecord
}

func (r *recordingCompletions) ObserveCompletion(status string, _ float64, in, out int32) {
	r.records = append(r.records, completionRecord{status: status, input: in, output: out})
}

func TestGenerator_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		resp   LLMResponse
		err    error
		want   dialogue.GenerationStatus
		wantOK bool
	}{
		{"success", LLMResponse{Text: "Sounds great!"}, nil, dialogue.GenerationGenerated, true},
		{"rate limited", LLMResponse{}, fmt.Errorf("%w: quota", ErrRateLimited), dialogue.GenerationRateLimited, false},
		{"malformed", LLMResponse{}, fmt.Errorf("%w: no parts", ErrMalformedResponse), dialogue.GenerationMalformed, false},
		{"blank text", LLMResponse{Text: "   "}, nil, dialogue.GenerationMalformed, false},
		{"transport failure", LLMResponse{}, errors.New("dial tcp: refused"), dialogue.GenerationFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedLLM{responses: []LLMResponse{tt.resp}, errs: []error{tt.err}}
			gen := NewGenerator(client, DefaultGeneratorConfig(), nil, nil)

			got := gen.Generate(context.Background(), "prompt")
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.wantOK, got.OK())
			if !tt.wantOK {
				assert.Empty(t, got.Text)
			}
		})
	}
}

func TestGenerator_SendsPromptWithSamplingSettings(t *testing.T) {
	client := &scriptedLLM{responses: []LLMResponse{{Text: "hi", Usage: TokenUsage{InputTokens: 40, OutputTokens: 3}}}}
	observer := &recordingCompletions{}
	gen := NewGenerator(client, DefaultGeneratorConfig(), nil, observer)

	got := gen.Generate(context.Background(), "USER MESSAGE: \"hello\"")
	require.True(t, got.OK())

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ChatRoleUser, req.Messages[0].Role)
	assert.Equal(t, "USER MESSAGE: \"hello\"", req.Messages[0].Content)
	assert.Equal(t, int32(150), req.MaxTokens)
	assert.Equal(t, int32(40), req.TopK)
	assert.InDelta(t, 0.7, req.Temperature, 1e-6)
	assert.InDelta(t, 0.95, req.TopP, 1e-6)

	require.Len(t, observer.records, 1)
	assert.Equal(t, completionRecord{status: "generated", input: 40, output: 3}, observer.records[0])
}

func TestNewGenerator_NilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewGenerator(nil, DefaultGeneratorConfig(), nil, nil) })
}
