package capability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

type french struct{}

func (french) Greet() string { return "bonjour" }

const (
	blockA = BlockID(0xa)
	blockB = BlockID(0xb)
)

func TestRegistry_Api(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	_, err := reg.GetApi(blockA)
	assert.ErrorIs(err, status.ErrNotFound)
	var missing *ErrMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(blockA, missing.Block)

	reg.RegisterApi(blockA, english{})
	table, err := reg.GetApi(blockA)
	assert.NoError(err)
	assert.Equal(english{}, table)

	g, err := Api[greeter](reg, blockA)
	assert.NoError(err)
	assert.Equal("hello", g.Greet())

	reg.RegisterApi(blockA, french{})
	g, err = Api[greeter](reg, blockA)
	assert.NoError(err)
	assert.Equal("bonjour", g.Greet())

	_, err = Api[greeter](reg, blockB)
	assert.ErrorIs(err, status.ErrNotFound)
}

func TestRegistry_Xfer(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.RegisterApi(blockA, english{})

	_, err := reg.GetXfer(blockA)
	assert.ErrorIs(err, status.ErrNotFound)

	reg.RegisterXfer(blockA, 42)
	_, err = Xfer[greeter](reg, blockA)
	assert.ErrorIs(err, status.ErrInvalidParameter)

	v, err := Xfer[int](reg, blockA)
	assert.NoError(err)
	assert.Equal(42, v)
}

func TestRegistry_Nil(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.RegisterApi(blockA, nil)
	_, err := reg.GetApi(blockA)
	assert.ErrorIs(err, status.ErrNotFound)
}

func TestBlockID_String(t *testing.T) {
	assert := assert.New(t)

	id := Name(BlockID(0x1234), "test-block")
	assert.Equal("test-block", id.String())
	assert.Equal("block_0000beef", BlockID(0xbeef).String())
}
