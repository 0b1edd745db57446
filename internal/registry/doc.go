// Package registry maintains the heartbeat slots of monitored workers.
//
// Each registered worker owns exactly one Slot. The worker is the only
// writer of the slot's heartbeat fields (one atomic store plus one atomic
// increment per heartbeat, no allocation, no lock); the monitor goroutine
// only reads them. The registry itself is an xsync.Map so the monitor can
// iterate concurrently with registration and deregistration without
// blocking either side.
package registry
