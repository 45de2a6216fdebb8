//go:build race

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/silicon/config"
)

func TestHostMemory_Race(t *testing.T) {
	assert := assert.New(t)

	// Rendezvous atomics must be visible to the detector.
	assert.False(HOST_MMAP)

	// The whole bring-up, rendezvous and restore, runs clean under -race.
	m := newMachine(t, config.Default())
	res, err := m.Boot()
	require.NoError(t, err)
	assert.Equal(passed(), res.Status)
}
