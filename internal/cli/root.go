// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	chatURL    string
	uploadURL  string
	theme      string
}

// NewRootCommand builds the faqchat command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "faqchat",
		Short: "Chat with an FAQ bot from the terminal",
		Long: `faqchat sends questions to an FAQ chatbot service and shows the answers.

Questions are answered from the default FAQ set or from a CSV you upload.
Run without arguments to open the interactive chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if Interactive() {
				return runTUI(cmd, opts)
			}
			return runREPL(cmd, opts, nil)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.faqchat/config.toml)")
	flags.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.chatURL, "chat-url", "", "chat endpoint URL")
	flags.StringVar(&opts.uploadURL, "upload-url", "", "upload endpoint URL")
	flags.StringVar(&opts.theme, "theme", "", "background mode: auto, dark, light")

	root.AddCommand(
		newChatCommand(opts),
		newUploadCommand(opts),
		newPreviewCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, errorColor.Sprint("Error:"), err)
		var exit *ExitError
		if errors.As(err, &exit) {
			return exit.Code
		}
		return 1
	}
	return 0
}

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
