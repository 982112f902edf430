// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/components"
)

const replPrompt = "faqchat> "

// LineReader reads prompted lines with history. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

func newChatCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode",
		Long: `Chat with the FAQ bot one line at a time.

Type a question and press Enter. Lines starting with / are commands;
type /help to list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, opts, nil)
		},
	}
}

// runREPL runs the line-mode chat. A nil reader uses liner on the terminal.
func runREPL(cmd *cobra.Command, opts *globalOptions, in LineReader) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.close()

	if in == nil {
		line := liner.NewLiner()
		line.SetCtrlCAborts(true)
		in = line
	}
	defer in.Close()

	ColorsEnabled()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reloads, err := a.watchDefaults(ctx)
	if err != nil {
		a.log.Warn("default FAQ watch disabled", zap.Error(err))
	}

	r := &repl{
		ctrl:    a.controller(),
		in:      in,
		out:     cmd.OutOrStdout(),
		width:   GetTerminalWidth(),
		reloads: reloads,
	}
	return r.run(ctx)
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	ctrl    *controller.Controller
	in      LineReader
	out     io.Writer
	width   int
	reloads <-chan struct{}
}

func (r *repl) run(ctx context.Context) error {
	r.printWelcome()
	r.load(ctx, r.ctrl.SelectSource(model.SourceDefault))

	for {
		r.drainReloads(ctx)

		line, err := r.in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		// Trimmed for command matching only; questions are sent as typed.
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		r.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !r.handleCommand(ctx, input) {
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		r.ask(ctx, line)
	}
}

// ask submits a question and prints the reply once it arrives.
func (r *repl) ask(ctx context.Context, text string) {
	ex, ok := r.ctrl.Submit(text)
	if !ok {
		return
	}
	reply := ex.Run(ctx)
	r.ctrl.ApplyReply(reply)

	msg := model.NewAssistantMessage(reply.Content, reply.RequestID)
	printMessage(r.out, msg, r.width)
}

// load runs a default-sample load and prints the resulting preview.
func (r *repl) load(ctx context.Context, job *controller.SourceLoad) {
	if job != nil {
		printNotices(r.out, r.ctrl.ApplySamples(job.Run(ctx)))
	}
	printPreview(r.out, r.ctrl.View(), r.width)
}

func (r *repl) drainReloads(ctx context.Context) {
	if r.reloads == nil {
		return
	}
	select {
	case <-r.reloads:
		if job := r.ctrl.Reload(); job != nil {
			fmt.Fprintln(r.out, dimColor.Sprint("Default FAQs changed, reloading."))
			r.load(ctx, job)
		}
	default:
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand runs a slash command. It returns false when the REPL
// should exit.
func (r *repl) handleCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	name := strings.ToLower(parts[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch name {
	case "/quit", "/exit", "/q":
		return false

	case "/help", "/h", "/?":
		r.printHelp()

	case "/source":
		if arg == "" {
			fmt.Fprintf(r.out, "Source: %s\n", r.ctrl.Source().Label())
			return true
		}
		src, err := model.ParseFaqSource(arg)
		if err != nil {
			fmt.Fprintln(r.out, errorColor.Sprint("[Error]"), err)
			return true
		}
		r.load(ctx, r.ctrl.SelectSource(src))

	case "/file":
		if arg == "" {
			if p := r.ctrl.PendingFile(); !p.IsZero() {
				fmt.Fprintf(r.out, "Selected: %s\n", p.Name)
			} else {
				fmt.Fprintln(r.out, "No file selected. Usage: /file PATH")
			}
			return true
		}
		pending := faq.NewPendingFile(arg)
		r.ctrl.SelectFile(pending)
		fmt.Fprintf(r.out, "Selected: %s (type /upload to send it)\n", pending.Name)

	case "/upload":
		r.upload(ctx)

	case "/samples":
		printPreview(r.out, r.ctrl.View(), r.width)

	default:
		fmt.Fprintf(r.out, "%s unknown command %s (type /help)\n", errorColor.Sprint("[Error]"), parts[0])
	}
	return true
}

// upload validates and sends the pending file, printing notices and the
// new preview.
func (r *repl) upload(ctx context.Context) {
	job, notices := r.ctrl.Upload()
	printNotices(r.out, notices)
	if job == nil {
		return
	}
	printNotices(r.out, r.ctrl.ApplyUpload(job.Run(ctx)))
	printPreview(r.out, r.ctrl.View(), r.width)
}

func (r *repl) printWelcome() {
	fmt.Fprintln(r.out, titleColor.Sprint(components.AppTitle))
	fmt.Fprintln(r.out, dimColor.Sprint("Ask a question, or type /help for commands."))
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  /source [default|uploaded]  show or switch the FAQ source
  /file PATH                  choose a CSV to upload
  /upload                     upload the chosen CSV
  /samples                    show the sample FAQs
  /help                       show this help
  /quit                       leave (also exit, quit, Ctrl+D)`)
}
