package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricline/internal/engine"
	"karolbroda.com/lyricline/internal/ui"
)

var (
	// flags for run
	useTUI     bool
	hideHeader bool
	lineWidth  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "follow the active player and show lyrics",
	Long: `follows the active player and shows the current lyric line.
by default one line is printed per poll; --tui opens a full screen viewer instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if useTUI {
			return runViewer(cmd)
		}
		return runLines(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&useTUI, "tui", false, "start the interactive viewer")
	runCmd.Flags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide header section (tui)")
	runCmd.Flags().IntVarP(&lineWidth, "width", "w", 0, "truncate printed lines to this many cells (0 disables)")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
}

func runLines(cmd *cobra.Command) error {
	cfg := loadConfig(cmd)

	log, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sink := engine.NewLineSink(os.Stdout, cfg.Prefix, lineWidth)

	eng, release, err := newEngine(cfg, log, sink)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signalContext()
	defer stop()

	err = eng.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runViewer(cmd *cobra.Command) error {
	cfg := loadConfig(cmd)

	// the terminal belongs to the viewer; logs only go to the log file
	log, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	model := ui.NewModel(ui.ModelConfig{
		Fallback:   cfg.Fallback,
		HideHeader: hideHeader,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	eng, release, err := newEngine(cfg, log, ui.NewSink(p))
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signalContext()
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err = p.Run()
	stop()
	<-done

	if err != nil {
		return fmt.Errorf("error running bubble tea: %w", err)
	}
	return nil
}
