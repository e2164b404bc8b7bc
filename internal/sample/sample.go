// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sample draws a fixed-seed random sample of publications for
// manual open-access checking. The seed is part of the method: anyone
// re-running the sampling over the same input gets the same publications,
// so manual check results stay attributable.
package sample

import (
	"math/rand"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// Publications draws n publications without replacement using the given
// seed. When n is zero or exceeds the input, the whole input is returned
// in shuffled order. The input slice is not modified.
func Publications(publications []types.Publication, n int, seed int64) []types.Publication {
	shuffled := make([]types.Publication, len(publications))
	copy(shuffled, publications)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n <= 0 || n > len(shuffled) {
		return shuffled
	}
	return shuffled[:n]
}
