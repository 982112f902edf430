// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/server"
)

// errUploadRejected marks an upload that ended with an error notice.
var errUploadRejected = errors.New("upload did not complete")

// =============================================================================
// UPLOAD
// =============================================================================

func newUploadCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Validate and upload an FAQ CSV",
		Long: `Checks that FILE has question and answer columns, uploads it to the
upload endpoint and prints a random sample of its rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			ColorsEnabled()

			out := cmd.OutOrStdout()
			ctrl := a.controller()
			ctrl.SelectFile(faq.NewPendingFile(args[0]))

			job, notices := ctrl.Upload()
			printNotices(out, notices)
			if job == nil {
				return &ExitError{Code: 2, Err: errUploadRejected}
			}

			notices = ctrl.ApplyUpload(job.Run(cmd.Context()))
			printNotices(out, notices)
			if hasError(notices) {
				return &ExitError{Code: 1, Err: errUploadRejected}
			}
			printPreview(out, ctrl.View(), GetTerminalWidth())
			return nil
		},
	}
}

func hasError(notices []controller.Notice) bool {
	for _, n := range notices {
		if n.Kind == controller.NoticeError {
			return true
		}
	}
	return false
}

// =============================================================================
// PREVIEW
// =============================================================================

func newPreviewCommand(opts *globalOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the sample FAQs for a source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := model.ParseFaqSource(source)
			if err != nil {
				return err
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			ColorsEnabled()

			ctrl := a.controller()
			out := cmd.OutOrStdout()
			if job := ctrl.SelectSource(src); job != nil {
				printNotices(out, ctrl.ApplySamples(job.Run(cmd.Context())))
			}
			printPreview(out, ctrl.View(), GetTerminalWidth())
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(model.SourceDefault), "FAQ source: default or uploaded")
	return cmd
}

// =============================================================================
// SERVE
// =============================================================================

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the default FAQ CSV over HTTP",
		Long: `Serves /default_faqs.csv and /health. The CSV comes from faq.default_path
when set and from the built-in copy otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := server.New(server.Config{
				Addr:      addr,
				LocalPath: a.cfg.FAQ.DefaultPath,
				Version:   Version,
				Logger:    a.log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", faq.DefaultAssetPath, srv.Addr())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	return cmd
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "faqchat %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
