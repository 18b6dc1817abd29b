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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/perekladach/internal/translator"
)

var (
	sourceLang string
	targetLang string
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text once and print the result",
	Long: `Translate text once, the same way the window's translate button does,
and print the output field.

Text is taken from the arguments, or from standard input when none are given.
Languages may be given as ISO 639-1 codes or display names.

Example:
  perekladach translate -s ru -t en "Привет, мир"
  echo "Hallo Welt" | perekladach translate -s German -t French`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			text = string(data)
		}

		w, cleanup, err := buildWindow()
		if err != nil {
			return err
		}
		defer cleanup()

		if sourceLang != "" {
			if err := w.SelectSource(sourceLang); err != nil {
				return err
			}
		}
		if targetLang != "" {
			if err := w.SelectTarget(targetLang); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w.SetInput(text)
		reply, ok := <-w.Translate(ctx)
		if !ok {
			// Blank input is ignored, as in the window.
			return nil
		}

		if reply.Shown {
			fmt.Fprintln(cmd.OutOrStdout(), w.Output())
		}
		if reply.Err != nil {
			if errors.Is(reply.Err, translator.ErrNoTranslation) {
				return fmt.Errorf("translation unavailable: %w", reply.Err)
			}
			return fmt.Errorf("translation failed: %w", reply.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code or name (default from config)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code or name (default from config)")
}
