package smu

import (
	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/topology"
)

// Smu is the published power-management capability.
type Smu struct {
	Mailbox  Mailbox
	Revision *Revision
}

var _ bringup.Releaser = (*Smu)(nil)

// Release takes the thread at coord out of reset, fetching from address.
func (smu *Smu) Release(coord topology.Coordinate, address uint64) (err error) {
	args := Args{
		smu.Revision.PackThread(coord),
		uint32(address),
		uint32(address >> 32),
	}
	return call(smu.Mailbox, coord.Socket, smu.Revision.ReleaseThread, &args)
}

// Version returns the firmware version of a socket.
func (smu *Smu) Version(socket uint) (version uint32, err error) {
	var args Args
	err = call(smu.Mailbox, socket, smu.Revision.GetVersion, &args)
	if err != nil {
		return
	}
	version = args[0]
	return
}

// Features returns the enabled feature mask of a socket.
func (smu *Smu) Features(socket uint) (mask uint64, err error) {
	var args Args
	err = call(smu.Mailbox, socket, smu.Revision.GetFeatures, &args)
	if err != nil {
		return
	}
	mask = FeatureMask(args)
	return
}

// EnableFeatures requests features on a socket. They take effect after a
// warm reset.
func (smu *Smu) EnableFeatures(socket uint, mask uint64) (err error) {
	args := FeatureArgs(mask)
	return call(smu.Mailbox, socket, smu.Revision.EnableFeatures, &args)
}
