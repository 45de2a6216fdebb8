// Package bringup activates every non-bootstrap hardware thread, one at a
// time, through the reset-vector trampoline.
//
// The bootstrap thread snapshots its descriptor table and synchronized
// registers into the rendezvous state, installs the trampoline, and then for
// each coordinate of the topology asks the power-management block to release
// that thread. A released thread runs the startup program up to Entry, copies
// the snapshot into itself, and increments the shared acknowledgement
// counter. The bootstrap thread waits for that increment before releasing
// the next thread.
package bringup
