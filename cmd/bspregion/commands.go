package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/chazu/bspregion/pkg/kernel/sdfx"
	"github.com/chazu/bspregion/pkg/tessellate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Evaluate a script and report validation problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadScript(opts, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintf(out, "error: %s\n", e.Error())
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w.Message)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%s: %d errors", args[0], len(res.Errors))
			}
			fmt.Fprintf(out, "ok: %d nodes, %d warnings\n", res.Graph.NodeCount(), len(res.Warnings))
			return nil
		},
	}
}

func newEvalCmd(opts *rootOptions) *cobra.Command {
	var showLoops bool
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Print the area, barycenter and boundary of every region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(opts, args[0])
			if err != nil {
				return err
			}
			regions, err := tessellate.Regions(g)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range regions {
				name := r.Name
				if r.Scene != "" {
					name = r.Scene + "/" + r.Name
				}
				area := r.Set.Size()
				switch {
				case math.IsInf(area, 1):
					fmt.Fprintf(out, "%s: unbounded\n", name)
				case r.Set.IsEmpty() || area == 0:
					fmt.Fprintf(out, "%s: empty\n", name)
				default:
					c := r.Set.Barycenter()
					fmt.Fprintf(out, "%s: area %g barycenter (%g, %g)\n", name, area, c.X, c.Y)
				}
				if !showLoops {
					continue
				}

				loops, err := r.Set.Vertices()
				if err != nil {
					return errors.Wrapf(err, "boundary of %s", name)
				}
				for i, l := range loops {
					kind := "closed"
					if l.Open {
						kind = "open"
					}
					fmt.Fprintf(out, "  loop %d (%s):", i, kind)
					for _, p := range l.Points {
						fmt.Fprintf(out, " (%g, %g)", p.X, p.Y)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showLoops, "loops", false, "also print boundary loops")
	return cmd
}

func newMeshCmd(opts *rootOptions) *cobra.Command {
	var (
		height float64
		cells  int
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "mesh FILE",
		Short: "Extrude every bounded region and write the meshes as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cells <= 0 {
				return fmt.Errorf("cells must be positive, got %d", cells)
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read script")
			}
			result := NewApp(opts.newEngine(), sdfx.NewWithCells(cells), height).Evaluate(string(source))
			log.Infof("%s: %d meshes, %d errors, %d warnings",
				args[0], len(result.Meshes), len(result.Errors), len(result.Warnings))

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(result); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%s: %s", args[0], result.Errors[0].Message)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&height, "height", 1, "extrusion height")
	cmd.Flags().IntVar(&cells, "cells", 200, "marching cubes resolution along the longest axis")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	return cmd
}
