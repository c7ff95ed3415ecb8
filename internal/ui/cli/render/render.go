package render

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/isaacphi/tracetail/internal/appState"
	"github.com/isaacphi/tracetail/internal/render"
)

var inputPath string

var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an agent trace as a transcript",
	Long:  `Read line-delimited trace events from stdin (or a file) and write a styled transcript to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()

		in := os.Stdin
		if inputPath != "" {
			f, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		r := render.New(os.Stdout, render.Options{
			UnknownLimit:     app.Config.Render.UnknownLimit,
			TodoLimit:        app.Config.Render.TodoLimit,
			EditPreview:      app.Config.Render.EditPreview,
			DescriptionWidth: app.Config.Render.DescriptionWidth,
		})
		return r.Run(in)
	},
}

func init() {
	RenderCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Read the trace from a file instead of stdin")
}
