package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lumen/internal/demo"
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/backend/pdf"
	"github.com/vango-dev/lumen/pkg/ssr"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		output string
		page   bool
	)

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Print the server-rendered markup of a page",
		Long: `Render a demo page and print its serialized output.

The special path "report" renders the weekly report with the PDF
backend; write it to a file with --output.

Examples:
  lumen render /
  lumen render /todos --page
  lumen render report -o report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup()
			if err != nil {
				return err
			}
			defer e.close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			opts := []ssr.Option{ssr.WithLogger(e.logger.Logger)}
			if args[0] == "report" {
				return ssr.Render(cmd.Context(), w, pdf.New(), demo.WeeklyReport(), opts...)
			}

			route, ok := demo.Lookup(args[0])
			if !ok {
				return fmt.Errorf("no page at %s", args[0])
			}
			b := backend.Backend(dom.New())
			if route.Backend != nil {
				b = route.Backend()
			}
			body, err := ssr.RenderToString(cmd.Context(), b, route.Component, opts...)
			if err != nil {
				return err
			}
			if !page {
				_, err = fmt.Fprintln(w, body)
				return err
			}
			return ssr.WritePage(w, ssr.Page{Title: route.Title}, body)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&page, "page", false, "Wrap the markup in a full HTML document")

	return cmd
}
