package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/wheel"
)

// NewRenderCmd writes a wheel PNG for a list of names, handy for checking
// layouts without running the server.
func NewRenderCmd() *cobra.Command {
	var (
		names    string
		rotation float64
		size     float64
		viewport string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a wheel to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var participants []domain.Participant
			for _, name := range strings.Split(names, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				participants = append(participants, domain.Participant{
					ID:    fmt.Sprint(len(participants)),
					Name:  name,
					Color: domain.Palette[len(participants)%len(domain.Palette)],
				})
			}

			if viewport != "" {
				var w, h float64
				if _, err := fmt.Sscanf(viewport, "%gx%g", &w, &h); err != nil {
					return fmt.Errorf("invalid viewport %q, want WIDTHxHEIGHT", viewport)
				}
				size = wheel.FitSize(w, h)
			}
			geom := wheel.Layout(participants, size)
			img, err := wheel.Render(geom, rotation)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := wheel.EncodePNG(f, img); err != nil {
				return err
			}

			if slice, ok := geom.SliceAt(rotation); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%gpx), pointer on %s\n", out, size, participants[slice.Index].Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&names, "names", "", "comma separated participant names")
	cmd.Flags().Float64Var(&rotation, "rotation", 0, "wheel rotation in degrees")
	cmd.Flags().Float64Var(&size, "size", wheel.MaxSize, "image size in pixels")
	cmd.Flags().StringVar(&viewport, "viewport", "", "size the wheel for a WIDTHxHEIGHT screen, overrides --size")
	cmd.Flags().StringVar(&out, "out", "wheel.png", "output file")
	return cmd
}
