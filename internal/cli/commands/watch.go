package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/watch"
)

// WatchCommand keeps the workspace loaded and re-links on every change
// batch until interrupted.
func WatchCommand(args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded := MustLoadWorkspace(ctx)
	logger := cli.NewLogger(loaded.Config)

	extensions := loaded.Config.Workspace.Extensions
	if len(extensions) == 0 {
		extensions = resolve.DefaultExtensions
	}

	w, err := watch.NewWatcher(loaded.Config.Workspace.Root, extensions, loaded.Config.Watch.Debounce.Std(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = w.Close() }()

	updater := watch.NewUpdater(loaded.Manager, logger)
	ch := make(chan []watch.ChangeEvent, 4)

	go func() {
		if err := w.Run(ctx, ch); err != nil && ctx.Err() == nil {
			logger.Error("watcher error", "err", err)
		}
		close(ch)
	}()

	fmt.Printf("Watching %s (%d module(s) loaded), Ctrl-C to stop\n",
		loaded.Config.Workspace.Root, len(loaded.Manager.Modules()))
	reportWorkspace(loaded)

	for {
		select {
		case <-ctx.Done():
			return
		case events, ok := <-ch:
			if !ok {
				return
			}
			loaded.Sink.Reset()
			updater.HandleChanges(ctx, events)
			reportWorkspace(loaded)
		}
	}
}

// reportWorkspace prints the current linking state after a change batch.
func reportWorkspace(loaded *Loaded) {
	if cycles := loaded.Manager.DetectCycles(); len(cycles) > 0 {
		fmt.Printf("  %d circular import chain(s), linking blocked\n", len(cycles))
		return
	}
	PrintDiagnostics(loaded.Sink)
	fmt.Printf("  %d module(s) in order, %d diagnostic(s)\n",
		len(loaded.Manager.DocumentsInOrder()), len(loaded.Sink.Diagnostics))
}
