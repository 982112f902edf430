// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the faqchat command line.
//
// With no subcommand faqchat opens the full-screen chat when both stdin and
// stdout are terminals, and a line-oriented REPL otherwise. The one-shot
// subcommands are:
//
//	faqchat upload FILE        validate and upload an FAQ CSV
//	faqchat preview            print the default FAQ preview
//	faqchat serve              serve the default FAQ resource over HTTP
//	faqchat version            print build information
//
// Configuration is read from .env files, the config file, FAQCHAT_*
// environment variables and finally the persistent flags, in that order.
// Logs always go to the rotating log file so they never disturb the screen.
package cli
