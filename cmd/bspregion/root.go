package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chazu/bspregion/pkg/engine"
	"github.com/chazu/bspregion/pkg/graph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	color     bool
	thickness float64
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "bspregion",
		Short:         "Planar region scripting tool",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogging(cmd.ErrOrStderr(), opts.logLevel, opts.color)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "WARNING", "log level (DEBUG, INFO, NOTICE, WARNING, ERROR, CRITICAL)")
	flags.BoolVar(&opts.color, "color", false, "colorize log output")
	flags.Float64Var(&opts.thickness, "thickness", graph.DefaultThickness, "default hyperplane thickness for polygons")
	flags.DurationVar(&opts.timeout, "timeout", engine.EvalTimeout, "script evaluation time limit")

	root.AddCommand(newCheckCmd(opts), newEvalCmd(opts), newMeshCmd(opts))
	return root
}

// newEngine returns an engine configured from the global flags.
func (opts *rootOptions) newEngine() *engine.Engine {
	eng := engine.NewEngine()
	eng.SetThickness(opts.thickness)
	eng.SetTimeout(opts.timeout)
	return eng
}

// loadScript evaluates and validates the script at path. Warnings are
// logged.
func loadScript(opts *rootOptions, path string) (*engine.EvalResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}

	res, err := opts.newEngine().EvaluateAndValidate(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate %s", path)
	}
	for _, w := range res.Warnings {
		log.Warningf("%s: %s", path, w.Message)
	}
	return res, nil
}

// loadGraph is loadScript for commands that need a usable graph.
func loadGraph(opts *rootOptions, path string) (*graph.DesignGraph, error) {
	res, err := loadScript(opts, path)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s: %d errors:\n  %s", path, len(msgs), strings.Join(msgs, "\n  "))
	}
	return res.Graph, nil
}
