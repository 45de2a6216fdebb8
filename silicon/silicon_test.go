package silicon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		eax uint32
		id  Identity
	}){
		{0x00a10f11, Identity{Family: 0x19, Model: 0x11, Stepping: 1}},
		{0x00b00f21, Identity{Family: 0x1a, Model: 0x02, Stepping: 1}},
		{0x00000663, Identity{Family: 0x6, Model: 0x6, Stepping: 3}},
	}

	for _, entry := range table {
		id := Decode(entry.eax)
		assert.Equal(entry.id, id, "%08x", entry.eax)
		assert.Equal(entry.eax, id.Encode(), "%08x", entry.eax)
	}
}

func TestSelect(t *testing.T) {
	assert := assert.New(t)

	gen, err := Select(Identity{Family: 0x19, Model: 0x11})
	assert.NoError(err)
	assert.Equal(GEN_FAM19, gen)

	gen, err = Select(Identity{Family: 0x1a, Model: 0x02})
	assert.NoError(err)
	assert.Equal(GEN_FAM1A, gen)

	gen, err = Select(Identity{Family: 0x17, Model: 0x31})
	assert.ErrorIs(err, status.ErrInvalidParameter)
	assert.Equal(GEN_UNKNOWN, gen)
	assert.Contains(err.Error(), "family 17h")
}
