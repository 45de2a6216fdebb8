package df

import (
	"github.com/ezrec/silicon/topology"
)

// Fabric is the published topology capability.
type Fabric struct {
	Bus      RegisterBus
	Revision Revision
}

var _ topology.Fabric = (*Fabric)(nil)

func (fab *Fabric) SocketCount() (uint, error) {
	return fab.Revision.Sockets(fab.Bus)
}

func (fab *Fabric) DieCount(socket uint) (uint, error) {
	return fab.Revision.Dies(fab.Bus, socket)
}

func (fab *Fabric) DieInfo(socket, die uint) (topology.Die, error) {
	return fab.Revision.Die(fab.Bus, socket, die)
}
