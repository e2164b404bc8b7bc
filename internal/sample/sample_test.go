// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sample

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

func makePublications(n int) []types.Publication {
	pubs := make([]types.Publication, n)
	for i := range pubs {
		pubs[i] = types.Publication{GUID: fmt.Sprintf("pub-%03d", i)}
	}
	return pubs
}

func TestPublicationsDeterministic(t *testing.T) {
	input := makePublications(100)

	first := Publications(input, 20, 1913)
	second := Publications(input, 20, 1913)

	require.Len(t, first, 20)
	assert.Equal(t, first, second, "same seed must draw the same sample")

	other := Publications(input, 20, 42)
	assert.NotEqual(t, first, other, "a different seed should draw a different sample")
}

func TestPublicationsNoReplacement(t *testing.T) {
	sampled := Publications(makePublications(50), 20, 1913)

	seen := map[string]bool{}
	for _, pub := range sampled {
		assert.False(t, seen[pub.GUID], "publication %s drawn twice", pub.GUID)
		seen[pub.GUID] = true
	}
}

func TestPublicationsSmallInput(t *testing.T) {
	sampled := Publications(makePublications(5), 20, 1913)
	assert.Len(t, sampled, 5, "sample size is capped at the input size")

	assert.Empty(t, Publications(nil, 20, 1913))
}

func TestPublicationsInputUntouched(t *testing.T) {
	input := makePublications(10)
	Publications(input, 5, 1913)
	for i, pub := range input {
		assert.Equal(t, fmt.Sprintf("pub-%03d", i), pub.GUID, "input order must survive sampling")
	}
}
