// Package agent contains concrete implementations of the core.Agent
// interface. BaseAgent supplies identity and the action lookup table every
// agent needs; ModelAgent builds on it with prompt-templated actions backed
// by a text-generation model.
//
// Actions are registered once, at construction or wiring time, so a missing
// capability is caught as ErrActionNotImplemented at lookup instead of
// surfacing mid-run through reflective dispatch.
package agent
