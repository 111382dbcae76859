package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vango-dev/reflex/internal/counter"
	"github.com/vango-dev/reflex/pkg/middleware"
	"github.com/vango-dev/reflex/pkg/producer"
	"github.com/vango-dev/reflex/pkg/render"
	"github.com/vango-dev/reflex/pkg/runtime"
)

type demoOptions struct {
	snapshot    string
	clicks      int
	rightClicks int
	pretty      bool
}

func demoCmd(flags *globalFlags) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the counter demo",
		Long: `Render the counter component, optionally hydrated from a snapshot,
simulate clicks on it and print the resulting HTML and state.

Examples:
  reflex demo
  reflex demo --clicks=3 --right-clicks=1
  reflex demo --snapshot=state.yaml --pretty
  reflex demo --snapshot=s3://my-bucket/counter.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Snapshot file or s3://bucket/key to hydrate from (default from reflex.json)")
	cmd.Flags().IntVar(&opts.clicks, "clicks", 0, "Number of clicks to simulate")
	cmd.Flags().IntVar(&opts.rightClicks, "right-clicks", 0, "Number of right clicks to simulate")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the printed HTML")

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, flags *globalFlags, opts demoOptions) error {
	cfg, logger, err := flags.load()
	if err != nil {
		return err
	}

	initial, err := loadInitial(ctx, cfg, opts.snapshot)
	if err != nil {
		return err
	}

	store := counter.NewProducer(logger,
		producer.WithMiddleware[counter.State](middleware.Logger(logger)),
	)
	defer store.Destroy()

	root, err := runtime.Mount(counter.App(store, initial),
		runtime.WithLogger(logger),
		runtime.WithRenderer(render.RendererConfig{Pretty: opts.pretty}),
	)
	if err != nil {
		return err
	}
	defer root.Unmount()

	for i := 0; i < opts.clicks; i++ {
		if err := root.Click(counter.IDButton); err != nil {
			return err
		}
	}
	for i := 0; i < opts.rightClicks; i++ {
		if err := root.Dispatch(counter.IDButton, "contextmenu"); err != nil {
			return err
		}
	}

	html, err := root.HTML()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, html)

	state := store.GetState()
	success(out, "count=%d step=%d", state.Count, state.Step)
	return nil
}
