package render

import (
	"encoding/json"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/isaacphi/tracetail/internal/stream"
)

// Task item status glyphs.
const (
	glyphPending    = "☐"
	glyphInProgress = "◐"
	glyphCompleted  = "☑"
)

// renderToolInvocation dispatches on the tool name. Unrecognized tools fall
// through to a generic framed dump of the input payload, so no tool type can
// crash the renderer.
func (r *Renderer) renderToolInvocation(e stream.ToolInvocation) {
	switch e.Name {
	case "Bash":
		r.renderBash(e.Input)
	case "Read", "Write", "Edit":
		r.renderFileTool(e.Name, e.Input)
	case "Glob", "Grep":
		r.renderSearchTool(e.Name, e.Input)
	case "TodoWrite":
		r.renderTodos(e.Input)
	default:
		r.renderGenericTool(e.Name, e.Input)
	}
}

func (r *Renderer) toolHeader(name, arg string) {
	label := name
	if arg != "" {
		label += "(" + arg + ")"
	}
	fmt.Fprintln(r.w, r.st.Tool.Render("● "+label))
}

func (r *Renderer) toolDetail(text string) {
	if w := r.opts.DescriptionWidth; w > 0 {
		text = runewidth.Truncate(text, w, "…")
	}
	fmt.Fprintln(r.w, r.st.Dim.Render("  └ "+text))
}

func (r *Renderer) renderBash(input map[string]any) {
	r.toolHeader("Bash", inputStr(input, "command"))
	if desc := inputStr(input, "description"); desc != "" {
		r.toolDetail(desc)
	}
}

func (r *Renderer) renderFileTool(name string, input map[string]any) {
	r.toolHeader(name, inputStr(input, "file_path"))
	if name == "Edit" {
		if old := inputStr(input, "old_string"); old != "" {
			r.toolDetail("replacing " + quotePreview(old, r.opts.EditPreview))
		}
	}
}

func (r *Renderer) renderSearchTool(name string, input map[string]any) {
	pattern := inputStr(input, "pattern")
	if scope := inputStr(input, "path"); scope != "" {
		r.toolHeader(name, pattern+", "+scope)
		return
	}
	r.toolHeader(name, pattern)
}

func (r *Renderer) renderTodos(input map[string]any) {
	items, _ := input["todos"].([]any)
	r.toolHeader("TodoWrite", fmt.Sprintf("%d %s", len(items), plural("task", len(items))))

	for i, item := range items {
		if i >= r.opts.TodoLimit {
			r.toolDetail(fmt.Sprintf("… %d more", len(items)-i))
			return
		}
		todo, ok := item.(map[string]any)
		if !ok {
			continue
		}
		glyph := glyphPending
		switch inputStr(todo, "status") {
		case "in_progress":
			glyph = glyphInProgress
		case "completed":
			glyph = glyphCompleted
		}
		fmt.Fprintln(r.w, r.st.Dim.Render("  "+glyph+" "+inputStr(todo, "content")))
	}
}

func (r *Renderer) renderGenericTool(name string, input map[string]any) {
	if name == "" {
		name = "tool"
	}
	r.toolHeader(name, "")
	if len(input) == 0 {
		return
	}
	pretty, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		// Maps of decoded JSON always marshal; keep the guarantee anyway.
		fmt.Fprintln(r.w, r.st.Frame.Render(fmt.Sprintf("%v", input)))
		return
	}
	fmt.Fprintln(r.w, r.st.Frame.Render(string(pretty)))
}

func inputStr(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// quotePreview quotes s, truncated to width display cells.
func quotePreview(s string, width int) string {
	return `"` + runewidth.Truncate(s, width, "…") + `"`
}
