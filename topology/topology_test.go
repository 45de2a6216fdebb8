package topology

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

type fakeFabric struct {
	dies [][]Die
	err  error
}

func (ff *fakeFabric) SocketCount() (uint, error) {
	return uint(len(ff.dies)), ff.err
}

func (ff *fakeFabric) DieCount(socket uint) (uint, error) {
	return uint(len(ff.dies[socket])), nil
}

func (ff *fakeFabric) DieInfo(socket, die uint) (Die, error) {
	return ff.dies[socket][die], nil
}

func TestWalk(t *testing.T) {
	assert := assert.New(t)

	fabric := &fakeFabric{dies: [][]Die{
		{{Ccds: 2, Complexes: 1, Cores: 2, Threads: 2}},
		{{Ccds: 1, Complexes: 1, Cores: 1, Threads: 2}},
	}}

	seq, err := Walk(fabric, DefaultLimits)
	assert.NoError(err)

	coords := slices.Collect(seq)
	assert.Len(coords, 8+2)
	assert.True(coords[0].IsBootstrap())
	assert.Equal(Coordinate{Thread: 1}, coords[1])
	assert.Equal(Coordinate{Core: 1}, coords[2])
	assert.Equal(Coordinate{Ccd: 1}, coords[4])
	assert.Equal(Coordinate{Socket: 1, Thread: 1}, coords[9])

	for n, c := range coords {
		if n > 0 {
			assert.False(c.IsBootstrap())
		}
	}

	// Stopping early must not panic.
	for c := range seq {
		if c.Core == 1 {
			break
		}
	}
}

func TestWalk_Limits(t *testing.T) {
	assert := assert.New(t)

	fabric := &fakeFabric{dies: [][]Die{
		{{Ccds: 2, Complexes: 1, Cores: 2, Threads: 4}},
	}}
	_, err := Walk(fabric, DefaultLimits)
	assert.ErrorIs(err, status.ErrInvalidParameter)
	var limit *ErrLimit
	assert.True(errors.As(err, &limit))
	assert.Equal("thread", limit.What)

	fabric = &fakeFabric{dies: [][]Die{{}, {}, {}}}
	_, err = Walk(fabric, DefaultLimits)
	assert.ErrorIs(err, status.ErrInvalidParameter)

	fabric = &fakeFabric{dies: [][]Die{{{Ccds: 0, Complexes: 1, Cores: 1, Threads: 1}}}}
	_, err = Walk(fabric, DefaultLimits)
	assert.ErrorIs(err, status.ErrInvalidParameter)

	fabric = &fakeFabric{err: status.ErrDeviceError}
	_, err = Walk(fabric, DefaultLimits)
	assert.ErrorIs(err, status.ErrDeviceError)
}

func TestCoordinate(t *testing.T) {
	assert := assert.New(t)

	c := Coordinate{Socket: 1, Die: 0, Ccd: 3, Complex: 1, Core: 7, Thread: 1}
	assert.Equal("1.0.3.1.7.1", c.String())
	assert.False(c.IsBootstrap())
	assert.Equal(uint(32), Die{Ccds: 2, Complexes: 2, Cores: 4, Threads: 2}.Count())
}
