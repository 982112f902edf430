// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package faq handles FAQ CSV files: parsing, schema checks, preview
// sampling and loading the bundled default corpus.
//
// # CSV Contract
//
// A header row is required and must name both a "question" and an
// "answer" column. Extra columns are ignored and blank lines are skipped.
//
// # Key Types
//
//   - Table: Parsed CSV with header columns and rows keyed by column
//   - PendingFile: A file chosen for upload but not yet sent
//   - DefaultLoader: Fetches and caches the default FAQ corpus
//   - Watcher: Reloads the default corpus when its local file changes
//
// # Usage
//
//	table, err := faq.Parse(r)
//	if err != nil {
//	    return err
//	}
//	if err := table.Validate(); err != nil {
//	    return err // errors.Is(err, faq.ErrMissingColumns)
//	}
//	preview := faq.RandomSample(table.Entries(), 10, nil)
package faq
