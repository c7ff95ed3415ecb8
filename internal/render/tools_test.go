package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacphi/tracetail/internal/stream"
)

func TestFileTools(t *testing.T) {
	t.Run("read shows path", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "Read", Input: map[string]any{"file_path": "/tmp/notes.md"}})
		assert.Contains(t, buf.String(), "Read(/tmp/notes.md)")
	})

	t.Run("edit previews replaced text", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "Edit", Input: map[string]any{
			"file_path":  "/tmp/main.go",
			"old_string": "func oldName()",
			"new_string": "func newName()",
		}})

		out := buf.String()
		assert.Contains(t, out, "Edit(/tmp/main.go)")
		assert.Contains(t, out, `replacing "func oldName()"`)
	})

	t.Run("long edit preview truncated", func(t *testing.T) {
		r, buf := newTestRenderer(Options{EditPreview: 20})
		old := strings.Repeat("abcde ", 30)
		r.Render(stream.ToolInvocation{Name: "Edit", Input: map[string]any{
			"file_path":  "/tmp/main.go",
			"old_string": old,
		}})

		out := buf.String()
		assert.Contains(t, out, "…")
		assert.NotContains(t, out, old)
	})
}

func TestDescriptionWidth(t *testing.T) {
	input := map[string]any{
		"command":     "ls -la",
		"description": "list every file in the working directory with details",
	}

	t.Run("off by default", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "Bash", Input: input})
		assert.Contains(t, buf.String(), "list every file in the working directory with details")
	})

	t.Run("capped when set", func(t *testing.T) {
		r, buf := newTestRenderer(Options{DescriptionWidth: 20})
		r.Render(stream.ToolInvocation{Name: "Bash", Input: input})

		out := buf.String()
		assert.Contains(t, out, "…")
		assert.NotContains(t, out, "list every file in the working directory with details")
	})
}

func TestSearchTools(t *testing.T) {
	t.Run("pattern only", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "Glob", Input: map[string]any{"pattern": "**/*.go"}})
		assert.Contains(t, buf.String(), "Glob(**/*.go)")
	})

	t.Run("pattern with path", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "Grep", Input: map[string]any{
			"pattern": "TODO",
			"path":    "internal/",
		}})
		assert.Contains(t, buf.String(), "Grep(TODO, internal/)")
	})
}

func TestTodoList(t *testing.T) {
	todos := func(statuses ...string) map[string]any {
		items := make([]any, 0, len(statuses))
		for i, s := range statuses {
			items = append(items, map[string]any{
				"content": fmt.Sprintf("task %d", i+1),
				"status":  s,
			})
		}
		return map[string]any{"todos": items}
	}

	t.Run("status glyphs", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "TodoWrite", Input: todos("pending", "in_progress", "completed")})

		out := buf.String()
		assert.Contains(t, out, "3 tasks")
		assert.Contains(t, out, "☐ task 1")
		assert.Contains(t, out, "◐ task 2")
		assert.Contains(t, out, "☑ task 3")
	})

	t.Run("capped with remainder", func(t *testing.T) {
		statuses := make([]string, 12)
		for i := range statuses {
			statuses[i] = "pending"
		}
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "TodoWrite", Input: todos(statuses...)})

		out := buf.String()
		assert.Contains(t, out, "task 10")
		assert.NotContains(t, out, "task 11")
		assert.Contains(t, out, "… 2 more")
	})

	t.Run("empty list", func(t *testing.T) {
		r, buf := newTestRenderer(Options{})
		r.Render(stream.ToolInvocation{Name: "TodoWrite", Input: map[string]any{"todos": []any{}}})
		assert.Contains(t, buf.String(), "0 tasks")
	})
}

func TestGenericToolWithoutInput(t *testing.T) {
	r, buf := newTestRenderer(Options{})
	r.Render(stream.ToolInvocation{Name: "WebFetch"})

	out := buf.String()
	assert.Contains(t, out, "WebFetch")
	// No payload, no frame.
	assert.NotContains(t, out, "│")
}

func TestUnnamedToolInvocation(t *testing.T) {
	r, buf := newTestRenderer(Options{})
	r.Render(stream.ToolInvocation{Input: map[string]any{"x": float64(1)}})
	require.Contains(t, buf.String(), "● tool")
}
