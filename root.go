package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/app"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/errmsg"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
)

type playOptions struct {
	length   time.Duration
	mode     string
	mediaKey string
	noState  bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts playOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "cuesync <subtitles> [native-subtitles]",
		Short:         "Play subtitles against a clock with auto-pause, repeat, condensed and fast-forward modes",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().DurationVar(&opts.length, "length", 0, "Media length (defaults to the end of the last cue)")
	rootCmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Initial mode: normal, autopause, condensed, repeat, fastforward")
	rootCmd.Flags().StringVar(&opts.mediaKey, "media-key", "", "Key for saved settings (defaults to the subtitle path)")
	rootCmd.Flags().BoolVar(&opts.noState, "no-state", false, "Do not restore or save per-media settings")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newForgetCommand(ctx))

	return rootCmd
}

var errNoTerminal = errors.New("the player needs an interactive terminal")

func runPlayer(cmd *cobra.Command, ctx *commandContext, opts playOptions, args []string) error {
	if !isTerminal(os.Stdout) {
		return errNoTerminal
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, logCloser, err := ctx.logger()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	sessOpts := session.Options{
		Playback:           cfg.PlaybackOptions(),
		ShowingCheckRadius: cfg.ShowingCheckRadius(),
		Logger:             logger,
	}
	if !opts.noState {
		mgr, err := ctx.openState(logger)
		if err != nil {
			return err
		}
		defer mgr.Close()
		sessOpts.Store = mgr
		sessOpts.MediaKey = opts.mediaKey
		if sessOpts.MediaKey == "" {
			sessOpts.MediaKey = mediaKeyFor(args[0])
		}
	}

	sess := session.New(sessOpts)
	defer sess.Close()

	if err := sess.LoadFiles(args...); err != nil {
		return errors.New(errmsg.Format(errmsg.OpSubtitleLoad, err))
	}
	if err := sess.Restore(cmd.Context()); err != nil {
		logger.Warn("restore settings failed", "error", err)
	}
	if opts.length > 0 {
		sess.SetLength(opts.length)
	}
	if opts.mode != "" {
		mode, err := playback.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		if err := sess.SetMode(cmd.Context(), mode); err != nil {
			return err
		}
	}

	stop := sess.Start(playback.TickerScheduler{})
	defer stop()

	logger.Info("player started", "tracks", sess.Tracks(), "length", sess.Length())
	p := tea.NewProgram(app.New(sess, filepath.Base(args[0])), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

// mediaKeyFor returns the absolute subtitle path, falling back to the path
// as given.
func mediaKeyFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func isTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
