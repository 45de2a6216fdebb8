// Package capability holds the tables silicon blocks use to find each other.
//
// Each block publishes, from its API registration callback, an interface value
// other blocks call into (its API), and optionally a revision-transfer table
// that abstracts register layouts of the detected silicon revision for the
// block's own use. Absence of an entry means the owning block has not
// registered yet.
package capability

import (
	"fmt"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// BlockID identifies a silicon block.
type BlockID uint32

func (id BlockID) String() string {
	name, ok := blockNames[id]
	if ok {
		return name
	}
	return fmt.Sprintf("block_%08x", uint32(id))
}

var blockNames = map[BlockID]string{}

// Name gives a block identifier a printable name.
func Name(id BlockID, name string) BlockID {
	blockNames[id] = name
	return id
}

// ErrMissing is returned when a block has not published the requested table.
type ErrMissing struct {
	Block BlockID
	Table string
}

func (err *ErrMissing) Error() string {
	return f("%v %v table missing", err.Block, err.Table)
}

func (err *ErrMissing) Unwrap() error {
	return status.ErrNotFound
}

// ErrMismatch is returned when a published table does not implement the
// requested interface.
type ErrMismatch struct {
	Block BlockID
	Table string
	Want  string
}

func (err *ErrMismatch) Error() string {
	return f("%v %v table is not a %v", err.Block, err.Table, err.Want)
}

func (err *ErrMismatch) Unwrap() error {
	return status.ErrInvalidParameter
}

// Registry is owned by a single boot session.
type Registry struct {
	api  map[BlockID]any
	xfer map[BlockID]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		api:  make(map[BlockID]any),
		xfer: make(map[BlockID]any),
	}
}

// RegisterApi publishes the API of a block. A later call replaces it.
func (reg *Registry) RegisterApi(id BlockID, table any) {
	reg.api[id] = table
}

// GetApi returns the API published by a block.
func (reg *Registry) GetApi(id BlockID) (table any, err error) {
	table, ok := reg.api[id]
	if !ok || table == nil {
		err = &ErrMissing{Block: id, Table: "api"}
	}
	return
}

// RegisterXfer publishes the revision-transfer table of a block.
func (reg *Registry) RegisterXfer(id BlockID, table any) {
	reg.xfer[id] = table
}

// GetXfer returns the revision-transfer table of a block.
func (reg *Registry) GetXfer(id BlockID) (table any, err error) {
	table, ok := reg.xfer[id]
	if !ok || table == nil {
		err = &ErrMissing{Block: id, Table: "xfer"}
	}
	return
}

func as[T any](id BlockID, kind string, table any, err error) (T, error) {
	var value T
	if err != nil {
		return value, err
	}

	value, ok := table.(T)
	if !ok {
		return value, &ErrMismatch{Block: id, Table: kind, Want: fmt.Sprintf("%T", (*T)(nil))[1:]}
	}

	return value, nil
}

// Api returns the API of block id as a T.
func Api[T any](reg *Registry, id BlockID) (T, error) {
	table, err := reg.GetApi(id)
	return as[T](id, "api", table, err)
}

// Xfer returns the revision-transfer table of block id as a T.
func Xfer[T any](reg *Registry, id BlockID) (T, error) {
	table, err := reg.GetXfer(id)
	return as[T](id, "xfer", table, err)
}
