package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vcut/internal/config"
	"vcut/internal/editor"
	"vcut/internal/ffmpeg"
	"vcut/internal/history"
	"vcut/internal/logging"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

// ensureConfig loads configuration once. Directories are created lazily by
// the operations that need them so a missing ffmpeg is reported before
// anything is written.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose() {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newEditor wires an editor for cmd. The returned close function releases the
// history store when one was opened.
func (c *commandContext) newEditor(cmd *cobra.Command) (*editor.Editor, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	var echo io.Writer
	if c.verbose() {
		echo = cmd.ErrOrStderr()
	}
	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithExecutor(ffmpeg.NewCommandExecutor(echo)),
	}
	if !c.verbose() && isTerminal(cmd.ErrOrStderr()) {
		opts = append(opts, editor.WithProgress(newProgressReporter(cmd.ErrOrStderr()).update))
	}

	closeFn := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.Paths.HistoryPath)
		if err != nil {
			logging.WarnWithContext(logger, "history disabled for this run", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check [paths] history_path"),
				logging.String(logging.FieldImpact, "run will not appear in vcut history"),
			)
		} else {
			opts = append(opts, editor.WithRecorder(store))
			closeFn = func() { _ = store.Close() }
		}
	}

	e, err := editor.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return e, closeFn, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
