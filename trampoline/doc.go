// Package trampoline builds the transient boot program that every released
// hardware thread fetches from the reset vector.
//
// The program is a fixed template laid out inside a 4 KiB region: a startup
// program that walks the thread through the real, protected and long mode
// stages, pointer slots for the shared entry function and the rendezvous
// state, a segment-descriptor table, the bootstrap thread's register
// synchronization list, and a near jump at the reset vector itself.
//
// Build is pure and produces the region image. Install captures whatever the
// region held, writes the image, and can Restore the captured bytes later.
package trampoline
