package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lumen/internal/demo"
	"github.com/vango-dev/lumen/pkg/backend/canvas"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

func paintCmd(g *globals) *cobra.Command {
	var (
		output string
		scale  int
	)

	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Paint the chart scene to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup()
			if err != nil {
				return err
			}
			defer e.close()

			b := canvas.New()
			root := b.Element("canvas")
			b.Attr(root, "width", demo.ChartWidth)
			b.Attr(root, "height", demo.ChartHeight)
			b.Attr(root, "background", "whitesmoke")
			b.Attr(root, "scale", scale)

			owner := lumen.NewTaggedOwner(nil, "paint")
			render.Mount(b, root, owner, demo.ChartScene())
			defer func() { _ = owner.Destroy(cmd.Context()) }()

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := canvas.EncodePNG(f, root.(*canvas.Shape)); err != nil {
				return err
			}
			success("Painted %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chart.png", "Output PNG file")
	cmd.Flags().IntVar(&scale, "scale", 1, "Integer upscaling factor")

	return cmd
}
