package dialogue

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTurns() []Turn {
	ts := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	return []Turn{
		{ID: "t1", Timestamp: ts, UserText: "Hello", BotText: "Hi there!", Intent: IntentGreeting, Confidence: 1, Source: SourceTemplate},
		{ID: "t2", Timestamp: ts.Add(time.Minute), UserText: "I have 30k followers", BotText: "Nice reach.", Intent: "follower_count", Confidence: 2.0 / 3, Source: SourceGenerated},
		{ID: "t3", Timestamp: ts.Add(2 * time.Minute), UserText: "asdf", BotText: ApologyReply, Intent: DefaultIntent, Confidence: 0, Source: SourceApology},
	}
}

func TestTranscriptJSON_RoundTrip(t *testing.T) {
	turns := sampleTurns()

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, turns))
	assert.Contains(t, buf.String(), `"user": "Hello"`)

	parsed, err := ParseTranscriptJSON(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(turns))
	for i := range turns {
		assert.Equal(t, turns[i].Intent, parsed[i].Intent)
		assert.Equal(t, turns[i].Confidence, parsed[i].Confidence)
		assert.Equal(t, turns[i].UserText, parsed[i].UserText)
		assert.Equal(t, turns[i].BotText, parsed[i].BotText)
		assert.True(t, turns[i].Timestamp.Equal(parsed[i].Timestamp))
	}

	assert.Equal(t, RenderText(turns), RenderText(parsed))
}

func TestExportJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseTranscriptJSON_Invalid(t *testing.T) {
	_, err := ParseTranscriptJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleTurns()[:2])

	assert.Equal(t, "[2024-03-09T14:30:00Z] User: Hello\n"+
		"[2024-03-09T14:30:00Z] Bot: Hi there!\n"+
		"  intent=greeting confidence=100% source=template\n"+
		"\n"+
		"[2024-03-09T14:31:00Z] User: I have 30k followers\n"+
		"[2024-03-09T14:31:00Z] Bot: Nice reach.\n"+
		"  intent=follower_count confidence=67% source=generated\n", out)
}
