// Package services implements the driving port interfaces.
//
// The algorithms live here: embedding generation, link suggestion and
// cross-reference scoring at build time, hybrid retrieval and
// recommendation scoring at query time. Services depend only on driven
// ports, never on concrete adapters.
package services
