package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/wombat6/stacktrack/internal/config"
	"github.com/wombat6/stacktrack/internal/settings"
	"github.com/wombat6/stacktrack/internal/stacktrack"
)

// app bundles what a subcommand needs once the config is loaded.
type app struct {
	cfg      *config.Config
	baseDir  string
	loc      *time.Location
	settings *settings.FileStore
}

// resolveConfigPath picks the --config flag, then $STACKTRACK_CONFIG, then
// ./stacktrack.yaml. explicit reports whether the user named a file.
func (f *globalFlags) resolveConfigPath() (path string, explicit bool) {
	if f.configPath != "" {
		return f.configPath, true
	}
	if p := os.Getenv(config.EnvPath); p != "" {
		return p, true
	}
	return config.FileName, false
}

// loadApp reads the config. A missing default config file is not an error:
// the defaults apply relative to the working directory.
func loadApp(flags *globalFlags) (*app, error) {
	path, explicit := flags.resolveConfigPath()

	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	default:
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, baseDir: filepath.Dir(path), loc: loc}
	a.settings = settings.NewFileStore(a.resolve(cfg.Settings.Path))
	return a, nil
}

// resolve makes a config-relative path absolute against the config's directory.
func (a *app) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.baseDir, p)
}

// service builds the chart service. A non-zero now pins the clock.
func (a *app) service(now time.Time) *stacktrack.Service {
	clk := clock.NewDefaultClock()
	if !now.IsZero() {
		clk = clock.NewTestClock(now)
	}
	return stacktrack.NewService(stacktrack.Config{
		Clock:       clk,
		Location:    a.loc,
		DefaultSpan: a.cfg.Chart.DefaultSpan,
		MarkFuture:  a.cfg.Chart.MarkFuture,
		Settings:    a.settings,
	})
}

// user returns the --user override or the configured user.
func (a *app) user(override string) string {
	if override != "" {
		return override
	}
	return a.cfg.User
}

// parseNow parses a --now flag value in loc. Empty means the wall clock.
func parseNow(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339, %q or %q", value, time.DateTime, time.DateOnly)
}
