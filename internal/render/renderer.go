// Package render turns classified trace events into a styled transcript.
//
// A Renderer is a single-pass, stateful pipeline: one line in, zero or more
// output lines out, in input order. The only state carried across events is
// the name of the tool block currently open and whether the stream is inside
// a thinking segment. No input shape is an error; unrecognized material
// degrades to a passthrough or a bounded fallback.
package render

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/isaacphi/tracetail/internal/stream"
)

// Default rendering limits. All of them are configurable; see Options.
const (
	DefaultUnknownLimit = 500
	DefaultTodoLimit    = 10
	DefaultEditPreview  = 120
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 10 * 1024 * 1024

// Options configures rendering limits. Zero values fall back to the defaults.
type Options struct {
	// UnknownLimit suppresses unknown-record payloads at or above this many
	// bytes of raw line.
	UnknownLimit int
	// TodoLimit caps the number of task list items shown.
	TodoLimit int
	// EditPreview caps the width of the replaced-text preview on edits.
	EditPreview int
	// DescriptionWidth caps the width of tool detail lines. 0 means no cap.
	DescriptionWidth int
}

func (o Options) withDefaults() Options {
	if o.UnknownLimit <= 0 {
		o.UnknownLimit = DefaultUnknownLimit
	}
	if o.TodoLimit <= 0 {
		o.TodoLimit = DefaultTodoLimit
	}
	if o.EditPreview <= 0 {
		o.EditPreview = DefaultEditPreview
	}
	return o
}

// Renderer writes a transcript for a stream of trace events. It is not safe
// for concurrent use; consumption is strictly sequential by design.
type Renderer struct {
	w    io.Writer
	st   Styles
	opts Options

	// Block state: at most one open block at a time.
	currentTool string
	inThinking  bool
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	return &Renderer{
		w:    w,
		st:   newStyles(lipgloss.NewRenderer(w)),
		opts: opts.withDefaults(),
	}
}

// Run consumes in line by line until EOF, rendering each line before reading
// the next. A line over maxLineBytes is truncated to the cap and its remainder
// discarded, so oversized input degrades instead of stopping the pipeline.
// Only read failures on the underlying stream are returned.
func (r *Renderer) Run(in io.Reader) error {
	br := bufio.NewReaderSize(in, 64*1024)
	for {
		line, err := readBoundedLine(br)
		if line != "" || err == nil {
			r.RenderLine(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readBoundedLine reads the next line, without its delimiter, capped at
// maxLineBytes.
func readBoundedLine(br *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if room := maxLineBytes - len(line); len(chunk) > room {
			chunk = chunk[:room]
		}
		line = append(line, chunk...)

		switch err {
		case nil:
			return string(line), nil
		case bufio.ErrBufferFull:
			if len(line) >= maxLineBytes {
				return string(line), discardRestOfLine(br)
			}
		default:
			return string(line), err
		}
	}
}

// discardRestOfLine drops input up to and including the next newline.
func discardRestOfLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		switch err {
		case nil:
			return nil
		case bufio.ErrBufferFull:
			continue
		default:
			return err
		}
	}
}

// RenderLine classifies one line and renders the resulting events in order.
func (r *Renderer) RenderLine(line string) {
	for _, ev := range stream.Classify(line) {
		r.Render(ev)
	}
}

// Render dispatches one event to its renderer.
func (r *Renderer) Render(ev stream.Event) {
	switch e := ev.(type) {
	case stream.Passthrough:
		fmt.Fprintln(r.w, e.Line)
	case stream.Unknown:
		r.renderUnknown(e)
	case stream.SessionInit:
		r.renderSessionInit(e)
	case stream.SystemNotice:
		r.renderSystemNotice(e)
	case stream.AssistantText:
		r.renderAssistantText(e)
	case stream.ToolInvocation:
		r.renderToolInvocation(e)
	case stream.ToolResult:
		r.renderToolResult(e)
	case stream.BlockStart:
		r.enterBlock(e)
	case stream.TextDelta:
		r.renderTextDelta(e)
	case stream.PartialInputDelta:
		fmt.Fprint(r.w, r.st.Dim.Render(e.Fragment))
	case stream.BlockStop:
		r.exitBlock()
	case stream.FinalResult:
		r.renderFinalResult(e)
	case stream.ErrorEvent:
		fmt.Fprintln(r.w, r.st.ErrFrame.Render(e.Message))
	case stream.Marker:
		r.renderMarker(e)
	}
}

// enterBlock opens a thinking or tool block and emits its start marker.
func (r *Renderer) enterBlock(e stream.BlockStart) {
	switch e.BlockType {
	case stream.BlockThinking:
		r.inThinking = true
		fmt.Fprintln(r.w, r.st.Thinking.Render("✻ Thinking…"))
	case stream.BlockToolUse:
		r.currentTool = e.ToolName
		name := e.ToolName
		if name == "" {
			name = "tool"
		}
		fmt.Fprintln(r.w, r.st.Tool.Render("● "+name)+r.st.Dim.Render(" …"))
	}
}

// exitBlock closes the open block, if any. Spurious stops are no-ops.
func (r *Renderer) exitBlock() {
	if r.inThinking {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, r.st.Thinking.Render("✻ done thinking"))
	} else if r.currentTool != "" {
		// Terminate the unterminated input fragment line.
		fmt.Fprintln(r.w)
	}
	r.inThinking = false
	r.currentTool = ""
}

func (r *Renderer) renderTextDelta(e stream.TextDelta) {
	if r.inThinking {
		fmt.Fprint(r.w, r.st.Thinking.Render(e.Text))
		return
	}
	fmt.Fprint(r.w, r.st.Text.Render(e.Text))
}

func (r *Renderer) renderSessionInit(e stream.SessionInit) {
	model := e.Model
	if e.Version != "" {
		model += " (v" + e.Version + ")"
	}
	body := fmt.Sprintf("session  %s\nmodel    %s\ntools    %d\nmcp      %d servers",
		e.SessionID, model, len(e.Tools), len(e.MCPServers))
	fmt.Fprintln(r.w, r.st.Frame.Render(body))
}

func (r *Renderer) renderSystemNotice(e stream.SystemNotice) {
	if e.Subtype == "" && e.Message == "" {
		return
	}
	label := "[system]"
	if e.Subtype != "" {
		label = "[system:" + e.Subtype + "]"
	}
	line := label
	if e.Message != "" {
		line += " " + e.Message
	}
	fmt.Fprintln(r.w, r.st.Dim.Render(line))
}

func (r *Renderer) renderAssistantText(e stream.AssistantText) {
	if strings.TrimSpace(e.Text) == "" {
		return
	}
	if e.Thinking {
		fmt.Fprintln(r.w, r.st.Thinking.Render(prefixLines(e.Text, "✻ ", "  ")))
		return
	}
	fmt.Fprintln(r.w, r.st.Text.Render(prefixLines(e.Text, "● ", "  ")))
}

func (r *Renderer) renderToolResult(e stream.ToolResult) {
	if e.IsError {
		content := e.Content
		if content == "" {
			content = e.Stderr
		}
		fmt.Fprintln(r.w, r.st.ErrFrame.Render(content))
		return
	}

	// Primary output wins over the generic content field.
	body := e.Stdout
	if body == "" {
		body = e.Content
	}
	body = strings.TrimRight(body, "\n")

	if body == "" && e.Stderr == "" {
		fmt.Fprintln(r.w, r.st.Dim.Render("  └ (no output)"))
		return
	}
	if body != "" {
		fmt.Fprintln(r.w, r.st.Dim.Render(prefixLines(body, "  ", "  ")))
		fmt.Fprintln(r.w, r.st.Dim.Render(fmt.Sprintf("  (%d %s)", lineCount(body), plural("line", lineCount(body)))))
	}
	if e.Stderr != "" {
		fmt.Fprintln(r.w, r.st.ErrFrame.Render(strings.TrimRight(e.Stderr, "\n")))
	}
}

func (r *Renderer) renderFinalResult(e stream.FinalResult) {
	var stats []string
	if e.HasCost {
		stats = append(stats, fmt.Sprintf("cost $%.4f", e.CostUSD))
	}
	if e.HasTokens {
		stats = append(stats, fmt.Sprintf("tokens %d in / %d out", e.InputTokens, e.OutputTokens))
	}
	if e.HasDuration {
		stats = append(stats, fmt.Sprintf("duration %.1fs", float64(e.DurationMS)/1000))
	}

	body := strings.TrimRight(e.Text, "\n")
	if len(stats) > 0 {
		if body != "" {
			body += "\n\n"
		}
		body += strings.Join(stats, "  ·  ")
	}

	frame := r.st.Frame
	if e.IsError {
		frame = r.st.ErrFrame
	}
	fmt.Fprintln(r.w, frame.Render(body))
}

func (r *Renderer) renderMarker(e stream.Marker) {
	switch e.Name {
	case "iteration_start":
		it := fieldString(e.Fields, "iteration")
		ts := fieldString(e.Fields, "timestamp")
		fmt.Fprintln(r.w, r.st.Rule.Render(fmt.Sprintf("── iteration %s · %s ──", it, ts)))
	case "iteration_end":
		it := fieldString(e.Fields, "iteration")
		secs := fieldString(e.Fields, "elapsed_seconds")
		fmt.Fprintln(r.w, r.st.Rule.Render(fmt.Sprintf("── iteration %s done · %ss ──", it, secs)))
	default:
		fmt.Fprintln(r.w, r.st.Dim.Render("[event:"+e.Name+"] "+compactJSON(e.Fields)))
	}
}

// renderUnknown applies the bounded fallback: a compact one-liner below the
// limit, nothing at all at or above it.
func (r *Renderer) renderUnknown(e stream.Unknown) {
	if len(e.Raw) >= r.opts.UnknownLimit {
		return
	}
	tag := e.Tag
	if tag == "" {
		tag = "?"
	}
	payload := e.Raw
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(strings.TrimSpace(e.Raw))); err == nil {
		payload = buf.String()
	}
	fmt.Fprintln(r.w, r.st.Dim.Render("["+tag+"] "+payload))
}

// prefixLines prefixes the first line with head and the rest with cont.
func prefixLines(text, head, cont string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = head + line
		} else {
			lines[i] = cont + line
		}
	}
	return strings.Join(lines, "\n")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// fieldString renders a marker field value, trimming float64 integers that
// JSON decoding produced from whole numbers.
func fieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return "?"
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
