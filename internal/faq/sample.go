// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"math/rand/v2"

	"github.com/jeranaias/faqchat/internal/model"
)

// Preview sizes.
const (
	DefaultPreviewSize  = 5
	UploadedPreviewSize = 10
)

// First returns a copy of at most n entries from the start of entries.
func First(entries []model.FaqEntry, n int) []model.FaqEntry {
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]model.FaqEntry, n)
	copy(out, entries[:n])
	return out
}

// RandomSample returns at most n entries drawn from entries in random order.
// The order carries no meaning and is not reproducible unless the caller
// supplies a seeded rng. A nil rng uses the runtime-seeded global source.
func RandomSample(entries []model.FaqEntry, n int, rng *rand.Rand) []model.FaqEntry {
	shuffled := make([]model.FaqEntry, len(entries))
	copy(shuffled, entries)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	return First(shuffled, n)
}
