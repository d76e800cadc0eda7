// Command macroengine is the macro engine's process entrypoint: it
// loads engine settings and a macro profile, wires the gesture
// orchestrator, traffic controller, executor, and dispatcher together,
// starts the platform input hook and global hotkeys, and watches the
// profile file for hot reload until it receives a termination signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/miraines/macroforge/internal/audio"
	"github.com/miraines/macroforge/internal/config"
	"github.com/miraines/macroforge/internal/dispatcher"
	"github.com/miraines/macroforge/internal/executor"
	"github.com/miraines/macroforge/internal/gesture"
	"github.com/miraines/macroforge/internal/hotkey"
	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/logging"
	"github.com/miraines/macroforge/internal/platform"
	"github.com/miraines/macroforge/internal/profile"
	"github.com/miraines/macroforge/internal/timing"
	"github.com/miraines/macroforge/internal/traffic"
)

func main() {
	settingsPath := flag.String("settings", "", "path to engine settings file (defaults to ./macroengine.json and friends)")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "macroengine: loading settings: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Enabled:    true,
		MaxEntries: settings.Logging.MaxEntries,
		Level:      logging.LogLevel(strings.ToUpper(settings.Logging.Level)),
		Role:       "macroengine",
		LogToFile:  settings.Logging.ToFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "macroengine: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	prof, compiled := loadProfileOrDegrade(settings.ProfilePath, logger)

	oracle := timing.NewOracle()
	trafficCtl := traffic.New(compiled, oracle)

	perms := platform.NewPermissions()
	if ok, err := perms.Check(platform.PermissionAccessibility); err != nil || !ok {
		logger.Warn("macroengine", "accessibility permission not granted, requesting: %v", err)
		if rerr := perms.Request(platform.PermissionAccessibility); rerr != nil {
			logger.Error("macroengine", "accessibility permission request failed: %v", rerr)
		}
	}

	input := platform.NewGohookSource(logger)
	output := platform.NewRobotgoSink(logger)

	orch := gesture.New(logger)
	applyTimingToAllKeys(orch, prof.Timing.ToGesture())

	collab := audio.NoOp{Logger: logger}
	exec := executor.New(output, oracle, trafficCtl, collab, logger)
	exec.AddListener(func(ev executor.ExecutionEvent) {
		if ev.Type == executor.EventError {
			logger.ErrorC(ev.ID, "macroengine", "binding %q: %s", ev.BindingName, ev.Error)
			for _, e := range logger.EntriesByCorrelation(ev.ID) {
				logger.Info("macroengine", "  [%s] %s: %s", e.Level, e.Source, e.Message)
			}
		}
	})

	disp := dispatcher.New(exec, logger)
	disp.SetBindings(prof.Bindings)
	orch.OnAny(disp.HandleGesture)

	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)

	if err := input.Start(func(ev platform.RawEvent) {
		switch ev.Kind {
		case platform.RawKeyDown:
			orch.HandleKeyDown(ev.Key, ev.At)
		case platform.RawKeyUp:
			orch.HandleKeyUp(ev.Key, ev.At)
		}
	}); err != nil {
		logger.Error("macroengine", "starting input source: %v", err)
	}

	applyProfile := func(p profile.Profile, c profile.Compiled, reason string) {
		trafficCtl.SetConundrumSet(c)
		applyTimingToAllKeys(orch, p.Timing.ToGesture())
		disp.SetBindings(p.Bindings)
		logger.Info("macroengine", "profile %s: %d bindings", reason, len(p.Bindings))
	}

	reload := func() {
		p, c := loadProfileOrDegrade(settings.ProfilePath, logger)
		applyProfile(p, c, "reloaded")
	}

	hkMgr := hotkey.NewManager(logger)
	if settings.Hotkeys.KillSwitch != "" {
		if err := hkMgr.BindKillSwitch(settings.Hotkeys.KillSwitch, func() {
			exec.CancelAll()
			logger.Warn("macroengine", "kill switch pressed: cancelled all running sequences")
		}); err != nil {
			logger.Error("macroengine", "registering kill switch hotkey: %v", err)
		}
	}
	if settings.Hotkeys.ReloadProfile != "" {
		if err := hkMgr.BindReloadProfile(settings.Hotkeys.ReloadProfile, reload); err != nil {
			logger.Error("macroengine", "registering reload-profile hotkey: %v", err)
		}
	}
	hkMgr.StartAsync()

	var watcher *config.ProfileWatcher
	if settings.HotReload {
		watcher = config.NewProfileWatcher(settings.ProfilePath, logger)
		watcher.OnChange(func(p profile.Profile) {
			applyProfile(p, profile.Compile(p), "hot-reloaded")
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Error("macroengine", "starting profile watcher: %v", err)
		}
	}

	logger.Info("macroengine", "engine started, profile %q with %d bindings", prof.Name, len(prof.Bindings))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("macroengine", "shutting down")
	if watcher != nil {
		watcher.Stop()
	}
	hkMgr.Stop()
	input.Stop()
	cancel()
	exec.Destroy()
	orch.Destroy()
}

// loadProfileOrDegrade loads and compiles the profile at path. On
// failure it logs the error and falls back to an empty profile with no
// bindings and an empty conundrum set, so the engine keeps running
// (degraded, but not crashed) rather than exiting.
func loadProfileOrDegrade(path string, logger *logging.Logger) (profile.Profile, profile.Compiled) {
	p, err := config.LoadProfile(path)
	if err != nil {
		logger.Error("macroengine", "loading profile %s: %v — running with no bindings", path, err)
		p = profile.Profile{Name: "degraded", Timing: profile.TimingConfig{
			MultiPressWindowMs: 200,
			LongPressMinMs:     500,
			LongPressMaxMs:     1200,
			SuperLongMinMs:     1500,
			SuperLongMaxMs:     3000,
			CancelThresholdMs:  5000,
			DebounceDelayMs:    15,
		}}
	}
	return p, profile.Compile(p)
}

func applyTimingToAllKeys(orch *gesture.Orchestrator, cfg gesture.TimingConfig) {
	for _, ik := range key.AllInputKeys() {
		orch.Configure(ik, cfg)
	}
}
