package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/config"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/errmsg"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/logging"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/state"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = errors.New(errmsg.FormatWith(errmsg.OpConfigLoad, path, err))
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, io.Closer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, nil, errors.New(errmsg.Format(errmsg.OpLoggingSetup, err))
	}
	return logger, closer, nil
}

func (c *commandContext) openState(logger *slog.Logger) (*state.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	mgr, err := state.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", path, err)
	}
	return mgr, nil
}
