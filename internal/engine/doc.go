// Package engine contains the simulation core: the routine scheduler, the
// well-being system, and the aquarium manager that owns all tanks.
//
// ARCHITECTURAL RULE: the engine is deterministic and synchronous. Time only
// moves when the caller invokes Manager.Advance; there is no internal clock,
// no goroutine, and no randomness. The Driver in this package is the only
// piece that touches wall time, and it lives strictly outside Advance.
package engine
