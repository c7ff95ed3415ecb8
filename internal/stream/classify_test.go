package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPassthrough(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"free text", "building project..."},
		{"empty line", ""},
		{"broken json", `{"type": "assistant`},
		{"json scalar", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Classify(tt.line)
			require.Len(t, events, 1)
			assert.Equal(t, Passthrough{Line: tt.line}, events[0])
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	t.Run("missing discriminator", func(t *testing.T) {
		events := Classify(`{"foo": "bar"}`)
		require.Len(t, events, 1)
		unknown, ok := events[0].(Unknown)
		require.True(t, ok)
		assert.Empty(t, unknown.Tag)
	})

	t.Run("unrecognized discriminator", func(t *testing.T) {
		events := Classify(`{"type": "telemetry", "value": 1}`)
		require.Len(t, events, 1)
		unknown, ok := events[0].(Unknown)
		require.True(t, ok)
		assert.Equal(t, "telemetry", unknown.Tag)
	})
}

func TestClassifySessionInit(t *testing.T) {
	line := `{"type":"system","subtype":"init","session_id":"abc-123","model":"sonnet","version":"2.1.0","tools":["Bash","Read"],"mcp_servers":[{"name":"db","status":"connected"}]}`
	events := Classify(line)
	require.Len(t, events, 1)
	init, ok := events[0].(SessionInit)
	require.True(t, ok)
	assert.Equal(t, "abc-123", init.SessionID)
	assert.Equal(t, "sonnet", init.Model)
	assert.Equal(t, "2.1.0", init.Version)
	assert.Equal(t, []string{"Bash", "Read"}, init.Tools)
	assert.Equal(t, []string{"db"}, init.MCPServers)
}

func TestClassifySessionInitDefaults(t *testing.T) {
	// Absent fields default to zero values, never fail classification.
	events := Classify(`{"type":"system","subtype":"init"}`)
	require.Len(t, events, 1)
	init, ok := events[0].(SessionInit)
	require.True(t, ok)
	assert.Empty(t, init.SessionID)
	assert.Empty(t, init.Tools)
}

func TestClassifySystemNotice(t *testing.T) {
	events := Classify(`{"type":"system","subtype":"compact","message":"context compacted"}`)
	require.Len(t, events, 1)
	assert.Equal(t, SystemNotice{Subtype: "compact", Message: "context compacted"}, events[0])
}

func TestClassifyAssistantBlocks(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[` +
		`{"type":"text","text":"Let me check."},` +
		`{"type":"thinking","thinking":"hmm"},` +
		`{"type":"tool_use","name":"Bash","input":{"command":"ls -la"}}]}}`
	events := Classify(line)
	require.Len(t, events, 3)
	assert.Equal(t, AssistantText{Text: "Let me check."}, events[0])
	assert.Equal(t, AssistantText{Text: "hmm", Thinking: true}, events[1])
	inv, ok := events[2].(ToolInvocation)
	require.True(t, ok)
	assert.Equal(t, "Bash", inv.Name)
	assert.Equal(t, "ls -la", inv.Input["command"])
}

func TestClassifyToolResult(t *testing.T) {
	t.Run("error result", func(t *testing.T) {
		line := `{"type":"user","message":{"content":[{"type":"tool_result","is_error":true,"content":"permission denied"}]}}`
		events := Classify(line)
		require.Len(t, events, 1)
		res, ok := events[0].(ToolResult)
		require.True(t, ok)
		assert.True(t, res.IsError)
		assert.Equal(t, "permission denied", res.Content)
	})

	t.Run("content block list", func(t *testing.T) {
		line := `{"type":"user","message":{"content":[{"type":"tool_result","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}]}}`
		events := Classify(line)
		require.Len(t, events, 1)
		assert.Equal(t, "a\nb", events[0].(ToolResult).Content)
	})

	t.Run("stdout and stderr", func(t *testing.T) {
		line := `{"type":"user","message":{"content":[{"type":"tool_result","content":"done"}]},"tool_use_result":{"stdout":"file1\nfile2","stderr":"warning"}}`
		events := Classify(line)
		require.Len(t, events, 1)
		res := events[0].(ToolResult)
		assert.Equal(t, "file1\nfile2", res.Stdout)
		assert.Equal(t, "warning", res.Stderr)
		assert.Equal(t, "done", res.Content)
	})

	t.Run("flat record", func(t *testing.T) {
		events := Classify(`{"type":"tool_result","is_error":false,"content":"ok"}`)
		require.Len(t, events, 1)
		assert.Equal(t, "ok", events[0].(ToolResult).Content)
	})

	t.Run("plain user message", func(t *testing.T) {
		assert.Empty(t, Classify(`{"type":"user","message":{"content":[{"type":"text","text":"hi"}]}}`))
	})
}

func TestClassifyStreamEvents(t *testing.T) {
	t.Run("wrapped delta", func(t *testing.T) {
		line := `{"type":"stream_event","event":{"type":"content_block_delta","delta":{"type":"text_delta","text":"par"}}}`
		events := Classify(line)
		require.Len(t, events, 1)
		assert.Equal(t, TextDelta{Text: "par"}, events[0])
	})

	t.Run("thinking start", func(t *testing.T) {
		events := Classify(`{"type":"content_block_start","content_block":{"type":"thinking"}}`)
		require.Len(t, events, 1)
		assert.Equal(t, BlockStart{BlockType: BlockThinking}, events[0])
	})

	t.Run("tool block start", func(t *testing.T) {
		events := Classify(`{"type":"content_block_start","content_block":{"type":"tool_use","name":"Grep"}}`)
		require.Len(t, events, 1)
		assert.Equal(t, BlockStart{BlockType: BlockToolUse, ToolName: "Grep"}, events[0])
	})

	t.Run("thinking delta", func(t *testing.T) {
		events := Classify(`{"type":"content_block_delta","delta":{"type":"thinking_delta","thinking":"mull"}}`)
		require.Len(t, events, 1)
		assert.Equal(t, TextDelta{Text: "mull"}, events[0])
	})

	t.Run("input json delta", func(t *testing.T) {
		events := Classify(`{"type":"content_block_delta","delta":{"type":"input_json_delta","partial_json":"{\"comm"}}`)
		require.Len(t, events, 1)
		assert.Equal(t, PartialInputDelta{Fragment: `{"comm`}, events[0])
	})

	t.Run("block stop", func(t *testing.T) {
		events := Classify(`{"type":"content_block_stop","index":0}`)
		require.Len(t, events, 1)
		assert.Equal(t, BlockStop{}, events[0])
	})

	t.Run("message lifecycle is silent", func(t *testing.T) {
		assert.Empty(t, Classify(`{"type":"message_start"}`))
		assert.Empty(t, Classify(`{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`))
		assert.Empty(t, Classify(`{"type":"message_stop"}`))
	})
}

func TestClassifyFinalResult(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		line := `{"type":"result","result":"done","total_cost_usd":0.1234,"duration_ms":12345,"usage":{"input_tokens":1200,"output_tokens":300}}`
		events := Classify(line)
		require.Len(t, events, 1)
		res := events[0].(FinalResult)
		assert.Equal(t, "done", res.Text)
		assert.True(t, res.HasCost)
		assert.InDelta(t, 0.1234, res.CostUSD, 1e-9)
		assert.True(t, res.HasTokens)
		assert.Equal(t, 1200, res.InputTokens)
		assert.Equal(t, 300, res.OutputTokens)
		assert.True(t, res.HasDuration)
		assert.Equal(t, 12345, res.DurationMS)
	})

	t.Run("optional fields absent", func(t *testing.T) {
		events := Classify(`{"type":"result","result":"done"}`)
		require.Len(t, events, 1)
		res := events[0].(FinalResult)
		assert.False(t, res.HasCost)
		assert.False(t, res.HasTokens)
		assert.False(t, res.HasDuration)
	})
}

func TestClassifyError(t *testing.T) {
	events := Classify(`{"type":"error","error":{"message":"overloaded"}}`)
	require.Len(t, events, 1)
	assert.Equal(t, ErrorEvent{Message: "overloaded"}, events[0])

	events = Classify(`{"type":"error","message":"boom"}`)
	require.Len(t, events, 1)
	assert.Equal(t, ErrorEvent{Message: "boom"}, events[0])
}

func TestClassifyMarkers(t *testing.T) {
	events := Classify(`{"type":"iteration_start","iteration":3,"timestamp":"2026-02-01T10:00:00Z"}`)
	require.Len(t, events, 1)
	m, ok := events[0].(Marker)
	require.True(t, ok)
	assert.Equal(t, "iteration_start", m.Name)
	assert.Equal(t, float64(3), m.Fields["iteration"])
	assert.NotContains(t, m.Fields, "type")

	events = Classify(`{"type":"session_end","reason":"quota"}`)
	require.Len(t, events, 1)
	assert.Equal(t, "session_end", events[0].(Marker).Name)
}
