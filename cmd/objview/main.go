// Package main is the entry point for the objview model viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(loggerOptions(cfg.Logging)); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== objview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if len(cfg.Scene.Models) == 0 {
		path, err := pickModel(cfg.Data.LastDir)
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Info("no model selected")
			return
		}
		if err != nil {
			logger.Error("file dialog failed", zap.Error(err))
			os.Exit(1)
		}
		cfg.Scene.Models = []config.ModelConfig{{Path: path}}
		cfg.RememberDir(path)
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.String("path", config.DefaultPath()), zap.Error(err))
		}
	}

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func loggerOptions(lc config.LoggingConfig) logger.Options {
	opts := logger.Options{Level: lc.Level, Console: true, JSON: lc.JSON}
	if lc.LogFile != "" {
		opts.File = logger.DefaultFileConfig(lc.LogFile)
	}
	return opts
}

// pickModel shows a native open dialog for an OBJ file.
func pickModel(startDir string) (string, error) {
	d := dialog.File().
		Filter("Wavefront OBJ", "obj").
		Filter("All Files", "*").
		Title("Open Model")
	if startDir != "" {
		d = d.SetStartDir(startDir)
	}
	return d.Load()
}
