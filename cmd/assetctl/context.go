package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/config"
	"asset-library/internal/logging"
	"asset-library/internal/startup"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}

		level := "warn"
		if c.verbose != nil && *c.verbose {
			level = cfg.Logging.Level
		}
		logging.SetLevel(level)

		if err := startup.PrepareLibrary(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withLibrary opens the library for the duration of fn.
func (c *commandContext) withLibrary(ctx context.Context, fn func(*startup.Library) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lib, err := startup.OpenLibrary(ctx, cfg)
	if err != nil {
		if errors.Is(err, catalog.ErrLocked) {
			return fmt.Errorf("%w; stop the server or other assetctl process first", err)
		}
		return err
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil {
			logging.Warn("close library: %v", cerr)
		}
	}()
	return fn(lib)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func parseKind(arg string) (assettypes.Kind, error) {
	kind, err := assettypes.ParseKind(arg)
	if err != nil {
		return "", fmt.Errorf("%w (want assets, textures or stockshots)", err)
	}
	return kind, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
