// Package arena carves tagged data blocks out of the single memory region the
// host firmware hands to the silicon library.
//
// The arena is a bump allocator: blocks are appended after a fixed arena
// header, each preceded by a block header naming its tag and instance, and
// are never moved or freed. The block directory is the headers themselves;
// Find walks them linearly from the base of the arena to the free offset.
//
// Everything the arena knows lives inside the host region, so a later boot
// timepoint can Bind the same bytes and find the blocks populated earlier.
package arena
