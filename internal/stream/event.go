// Package stream classifies line-delimited agent trace records into typed events.
//
// Each input line is either a structured JSON record carrying a "type"
// discriminator, or free text. Classification never fails: undecodable lines
// become Passthrough events, decodable records with a missing or unrecognized
// discriminator become Unknown events. Every field beyond the discriminator is
// optional and defaults to its zero value.
package stream

// Kind identifies the type of a classified event.
type Kind int

const (
	KindPassthrough Kind = iota
	KindUnknown
	KindSessionInit
	KindSystemNotice
	KindAssistantText
	KindToolInvocation
	KindToolResult
	KindBlockStart
	KindTextDelta
	KindPartialInputDelta
	KindBlockStop
	KindFinalResult
	KindError
	KindMarker
)

// Event is the interface implemented by all classified events.
type Event interface {
	Kind() Kind
}

// Passthrough is a line that failed structured decoding. The renderer echoes
// it unchanged.
type Passthrough struct {
	Line string
}

func (e Passthrough) Kind() Kind { return KindPassthrough }

// Unknown is a decodable record whose discriminator is missing or not
// recognized. Rendering is bounded by the configured unknown limit.
type Unknown struct {
	Tag string // discriminator value, empty when absent
	Raw string // original line
}

func (e Unknown) Kind() Kind { return KindUnknown }

// SessionInit is the session metadata record emitted when the agent starts.
type SessionInit struct {
	SessionID  string
	Model      string
	Version    string
	Tools      []string
	MCPServers []string
}

func (e SessionInit) Kind() Kind { return KindSessionInit }

// SystemNotice is a system record with a subtype other than "init".
type SystemNotice struct {
	Subtype string
	Message string
}

func (e SystemNotice) Kind() Kind { return KindSystemNotice }

// AssistantText is a complete text or thinking block from an assistant message.
type AssistantText struct {
	Text     string
	Thinking bool
}

func (e AssistantText) Kind() Kind { return KindAssistantText }

// ToolInvocation is a complete tool_use block from an assistant message.
type ToolInvocation struct {
	Name  string
	Input map[string]any
}

func (e ToolInvocation) Kind() Kind { return KindToolInvocation }

// ToolResult is the outcome of a tool invocation. Stdout is preferred over
// Content when both are present; Stderr is framed separately when non-empty.
type ToolResult struct {
	IsError bool
	Content string
	Stdout  string
	Stderr  string
}

func (e ToolResult) Kind() Kind { return KindToolResult }

// Block type names carried by BlockStart.
const (
	BlockText     = "text"
	BlockThinking = "thinking"
	BlockToolUse  = "tool_use"
)

// BlockStart opens a delimited span of an assistant turn.
type BlockStart struct {
	BlockType string // BlockText, BlockThinking or BlockToolUse
	ToolName  string // set for tool_use blocks
}

func (e BlockStart) Kind() Kind { return KindBlockStart }

// TextDelta is an incremental text fragment inside an open block. Fragments
// concatenate in receipt order with no separators.
type TextDelta struct {
	Text string
}

func (e TextDelta) Kind() Kind { return KindTextDelta }

// PartialInputDelta is a fragment of a partially built JSON tool input. It is
// opaque and must not be parsed as complete JSON.
type PartialInputDelta struct {
	Fragment string
}

func (e PartialInputDelta) Kind() Kind { return KindPartialInputDelta }

// BlockStop closes the most recently opened block. Spurious stops are no-ops.
type BlockStop struct{}

func (e BlockStop) Kind() Kind { return KindBlockStop }

// FinalResult is the aggregate result record emitted at the end of a session.
// The Has* flags distinguish absent numeric fields from genuine zeroes.
type FinalResult struct {
	Text         string
	IsError      bool
	CostUSD      float64
	HasCost      bool
	InputTokens  int
	OutputTokens int
	HasTokens    bool
	DurationMS   int
	HasDuration  bool
}

func (e FinalResult) Kind() Kind { return KindFinalResult }

// ErrorEvent is an error record from the agent.
type ErrorEvent struct {
	Message string
}

func (e ErrorEvent) Kind() Kind { return KindError }

// Marker is a lifecycle record injected around agent runs, such as iteration
// boundaries. Fields holds everything except the discriminator.
type Marker struct {
	Name   string
	Fields map[string]any
}

func (e Marker) Kind() Kind { return KindMarker }
