// Package boot runs the silicon-block table at each of the three boot
// timepoints the host firmware calls into.
//
// A host first asks QueryMemoryRequirements how large a region to reserve,
// then for each timepoint calls AssignMemory with that region, which binds
// the arena, lets every block publish its capabilities and (at timepoint 1)
// fills in each block's default configuration. RunTimepoint then initializes
// the hardware. Blocks may ask for a deferred reset from their initialize
// callback; requests are collected across the whole table and the strongest
// one is returned once every block has run.
package boot
