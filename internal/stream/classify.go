package stream

import (
	"encoding/json"
	"strings"
)

// markerNames is the closed set of lifecycle discriminators. iteration_start
// and iteration_end have dedicated rendering; the rest render generically.
var markerNames = map[string]bool{
	"iteration_start":   true,
	"iteration_end":     true,
	"session_end":       true,
	"maintenance_start": true,
	"maintenance_end":   true,
}

// Classify maps one raw input line to zero or more events. It is a pure
// function of the line and never fails: undecodable input yields a
// Passthrough, unrecognized records yield an Unknown.
func Classify(line string) []Event {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return []Event{Passthrough{Line: line}}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return []Event{Passthrough{Line: line}}
	}

	typ, ok := raw["type"].(string)
	if !ok {
		return []Event{Unknown{Raw: line}}
	}

	switch typ {
	case "system":
		return classifySystem(raw)
	case "assistant":
		return classifyAssistant(raw)
	case "user", "tool_result":
		return classifyToolResult(raw)
	case "stream_event":
		if inner, ok := raw["event"].(map[string]any); ok {
			return classifyStreamEvent(inner)
		}
		return nil
	case "content_block_start", "content_block_delta", "content_block_stop",
		"message_start", "message_delta", "message_stop":
		return classifyStreamEvent(raw)
	case "result":
		return classifyResult(raw)
	case "error":
		return classifyError(raw)
	}

	if markerNames[typ] {
		fields := make(map[string]any, len(raw))
		for k, v := range raw {
			if k != "type" {
				fields[k] = v
			}
		}
		return []Event{Marker{Name: typ, Fields: fields}}
	}

	return []Event{Unknown{Tag: typ, Raw: line}}
}

func classifySystem(raw map[string]any) []Event {
	subtype := str(raw, "subtype")
	if subtype == "init" {
		return []Event{SessionInit{
			SessionID:  str(raw, "session_id"),
			Model:      str(raw, "model"),
			Version:    str(raw, "version"),
			Tools:      strSlice(raw, "tools"),
			MCPServers: nameSlice(raw, "mcp_servers"),
		}}
	}
	return []Event{SystemNotice{
		Subtype: subtype,
		Message: firstStr(raw, "message", "content", "data"),
	}}
}

func classifyAssistant(raw map[string]any) []Event {
	msg, _ := raw["message"].(map[string]any)
	if msg == nil {
		msg = raw
	}
	blocks, _ := msg["content"].([]any)

	var events []Event
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		switch str(block, "type") {
		case "text":
			events = append(events, AssistantText{Text: str(block, "text")})
		case "thinking":
			events = append(events, AssistantText{Text: str(block, "thinking"), Thinking: true})
		case "tool_use":
			input, _ := block["input"].(map[string]any)
			events = append(events, ToolInvocation{Name: str(block, "name"), Input: input})
		}
	}
	return events
}

func classifyToolResult(raw map[string]any) []Event {
	var events []Event

	var stdout, stderr string
	for _, key := range []string{"tool_use_result", "toolUseResult"} {
		if tr, ok := raw[key].(map[string]any); ok {
			stdout = str(tr, "stdout")
			stderr = str(tr, "stderr")
			break
		}
	}

	if msg, ok := raw["message"].(map[string]any); ok {
		if blocks, ok := msg["content"].([]any); ok {
			for _, b := range blocks {
				block, ok := b.(map[string]any)
				if !ok || str(block, "type") != "tool_result" {
					continue
				}
				isErr, _ := block["is_error"].(bool)
				events = append(events, ToolResult{
					IsError: isErr,
					Content: contentText(block["content"]),
					Stdout:  stdout,
					Stderr:  stderr,
				})
			}
		}
	}

	// Flat records carry the result fields at the top level.
	if len(events) == 0 && raw["type"] == "tool_result" {
		isErr, _ := raw["is_error"].(bool)
		events = append(events, ToolResult{
			IsError: isErr,
			Content: contentText(raw["content"]),
			Stdout:  stdout,
			Stderr:  stderr,
		})
	}
	return events
}

func classifyStreamEvent(ev map[string]any) []Event {
	switch str(ev, "type") {
	case "content_block_start":
		block, _ := ev["content_block"].(map[string]any)
		return []Event{BlockStart{
			BlockType: str(block, "type"),
			ToolName:  str(block, "name"),
		}}
	case "content_block_delta":
		delta, _ := ev["delta"].(map[string]any)
		switch str(delta, "type") {
		case "text_delta":
			return []Event{TextDelta{Text: str(delta, "text")}}
		case "thinking_delta":
			return []Event{TextDelta{Text: str(delta, "thinking")}}
		case "input_json_delta":
			return []Event{PartialInputDelta{Fragment: str(delta, "partial_json")}}
		}
		return nil
	case "content_block_stop":
		return []Event{BlockStop{}}
	}
	// message_start, message_delta, message_stop and anything else inside a
	// stream_event carry nothing renderable.
	return nil
}

func classifyResult(raw map[string]any) []Event {
	isErr, _ := raw["is_error"].(bool)
	ev := FinalResult{
		Text:    str(raw, "result"),
		IsError: isErr,
	}
	if cost, ok := num(raw, "total_cost_usd"); ok {
		ev.CostUSD = cost
		ev.HasCost = true
	}
	if ms, ok := num(raw, "duration_ms"); ok {
		ev.DurationMS = int(ms)
		ev.HasDuration = true
	}
	if usage, ok := raw["usage"].(map[string]any); ok {
		in, okIn := num(usage, "input_tokens")
		out, okOut := num(usage, "output_tokens")
		if okIn || okOut {
			ev.InputTokens = int(in)
			ev.OutputTokens = int(out)
			ev.HasTokens = true
		}
	}
	return []Event{ev}
}

func classifyError(raw map[string]any) []Event {
	msg := str(raw, "message")
	if msg == "" {
		if nested, ok := raw["error"].(map[string]any); ok {
			msg = str(nested, "message")
		}
	}
	return []Event{ErrorEvent{Message: msg}}
}

// contentText flattens a tool_result content value, which may be a plain
// string or a list of {type: "text", text: ...} blocks.
func contentText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, item := range c {
			block, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if t := str(block, "text"); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(m, k); s != "" {
			return s
		}
	}
	return ""
}

func strSlice(m map[string]any, key string) []string {
	items, _ := m[key].([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// nameSlice reads a list whose entries are either strings or objects with a
// "name" field, as in the init record's mcp_servers list.
func nameSlice(m map[string]any, key string) []string {
	items, _ := m[key].([]any)
	var out []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			out = append(out, str(v, "name"))
		}
	}
	return out
}

func num(m map[string]any, key string) (float64, bool) {
	f, ok := m[key].(float64)
	return f, ok
}
