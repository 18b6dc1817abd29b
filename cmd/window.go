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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/perekladach/internal/language"
	"github.com/valpere/perekladach/internal/window"
)

const windowHelp = `Start an interactive translation window.

Every line of text is put into the input field and translated. Lines
starting with ":" are commands:

  :swap               swap source and target languages
  :source <lang>      select the source language (code or name)
  :target <lang>      select the target language (code or name)
  :detect             select the source language detected in the last input
  :langs              list the available languages
  :show               show the current window state
  :help               show this help
  :quit               leave`

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Start an interactive translation window",
	Long:  windowHelp,
	RunE:  runWindow,
}

func runWindow(cmd *cobra.Command, args []string) error {
	w, cleanup, err := buildWindow()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &session{w: w, in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	return s.run(ctx)
}

type session struct {
	w   *window.Window
	in  io.Reader
	out io.Writer
}

func (s *session) prompt() {
	fmt.Fprintf(s.out, "[%s → %s] > ", s.w.Source().Name, s.w.Target().Name)
}

// run reads stdin in its own goroutine so an interrupt ends the session
// even while it waits for a line.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.prompt()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || ctx.Err() != nil {
				break loop
			}
			if strings.HasPrefix(strings.TrimSpace(line), ":") {
				if quit := s.command(strings.TrimSpace(line)); quit {
					break loop
				}
			} else {
				s.translate(ctx, line)
			}
			if ctx.Err() != nil {
				break loop
			}
			s.prompt()
		}
	}
	fmt.Fprintln(s.out)

	s.w.Wait()
	select {
	case err := <-scanErr:
		return err
	default:
		return nil
	}
}

func (s *session) translate(ctx context.Context, line string) {
	s.w.SetInput(line)
	select {
	case reply, ok := <-s.w.Translate(ctx):
		if ok && reply.Shown {
			fmt.Fprintln(s.out, s.w.Output())
		}
	case <-ctx.Done():
	}
}

func (s *session) command(line string) bool {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return false
	}
	arg := strings.Join(fields[1:], " ")

	switch fields[0] {
	case "quit", "q", "exit":
		return true
	case "swap":
		s.w.Swap()
	case "source", "src":
		if err := s.w.SelectSource(arg); err != nil {
			fmt.Fprintln(s.out, err)
		}
	case "target", "tgt":
		if err := s.w.SelectTarget(arg); err != nil {
			fmt.Fprintln(s.out, err)
		}
	case "detect":
		if e, ok := s.w.Detect(); ok {
			fmt.Fprintf(s.out, "Detected: %s\n", e)
		} else {
			fmt.Fprintln(s.out, "Could not detect the input language.")
		}
	case "langs", "languages":
		writeLanguages(s.out)
	case "show":
		snap := s.w.Snapshot()
		fmt.Fprintf(s.out, "Source: %s\nTarget: %s\nInput:  %s\nOutput: %s\n",
			snap.Source, snap.Target, snap.Input, snap.Output)
	case "help", "h":
		fmt.Fprintln(s.out, windowHelp)
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (try :help)\n", fields[0])
	}
	return false
}

func writeLanguages(out io.Writer) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tCODE")
	for i, e := range language.All() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, e.Name, e.Code)
	}
	tw.Flush()
}

func init() {
	rootCmd.AddCommand(windowCmd)
}
