/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/valpere/perekladach/internal/detector"
	"github.com/valpere/perekladach/internal/store"
	"github.com/valpere/perekladach/internal/translator"
	"github.com/valpere/perekladach/internal/validator"
	"github.com/valpere/perekladach/internal/window"
)

// buildWindow wires the configured backend, detector and optional history
// journal into a window. The returned func releases what was opened.
func buildWindow() (*window.Window, func(), error) {
	svc, err := translator.New(cfg.ServiceConfig())
	if err != nil {
		return nil, nil, err
	}

	det := detector.New()
	source, target := cfg.DefaultNames()

	opts := []window.Option{
		window.WithLogger(logger),
		window.WithDefaults(source, target),
		window.WithErrorLabel(cfg.Window.ErrorLabel),
		window.WithDetector(det),
	}
	if cfg.Window.ReportMalformed {
		opts = append(opts, window.WithUnavailableText(cfg.Window.UnavailableText))
	}
	if cfg.Window.ValidateOutput {
		opts = append(opts, window.WithChecker(validator.New(det)))
	}

	cleanup := func() {}
	if cfg.History.Enabled {
		db, err := openHistory(cfg.History.DB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, window.WithRecorder(db))
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close history", zap.Error(err))
			}
		}
	}

	logger.Debug("window ready",
		zap.String("service", svc.Name()),
		zap.String("source", source),
		zap.String("target", target),
		zap.Bool("history", cfg.History.Enabled))

	return window.New(svc, opts...), cleanup, nil
}

func openHistory(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return db, nil
}
