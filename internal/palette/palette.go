// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

// Package palette assigns stable chart colors to package names.
//
// Colors are drawn at random from a fixed set of hues that stay distinguishable for
// most color-vision deficiencies. Once a package has a color it keeps it for the
// lifetime of the Assigner; assignments are never evicted or persisted.
package palette

import (
	"math/rand/v2"
	"sync"
)

// Colors is the fixed palette, as hex CSS colors.
var Colors = []string{
	"#e6194B",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#42d4f4",
	"#f032e6",
	"#fabed4",
	"#469990",
	"#dcbeff",
	"#9A6324",
	"#fffac8",
	"#800000",
	"#aaffc3",
	"#000075",
	"#a9a9a9",
	"#000000",
}

// Contains reports whether color belongs to the palette.
func Contains(color string) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Option configures an Assigner.
type Option func(*Assigner)

// WithRand sets the random source used to pick new colors.
func WithRand(r *rand.Rand) Option {
	return func(a *Assigner) {
		a.rand = r
	}
}

// Assigner memoizes one color per package name.
//
// Thread Safety: safe for concurrent use.
type Assigner struct {
	mu     sync.Mutex
	colors map[string]string
	rand   *rand.Rand
}

// NewAssigner creates an empty Assigner.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{colors: make(map[string]string)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ColorFor returns the color of name, picking one on first use.
// Colors repeat once there are more names than palette entries.
func (a *Assigner) ColorFor(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.colors[name]; ok {
		return c
	}
	c := Colors[a.intN(len(Colors))]
	a.colors[name] = c
	return c
}

// Snapshot returns a copy of the current assignments.
func (a *Assigner) Snapshot() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]string, len(a.colors))
	for k, v := range a.colors {
		out[k] = v
	}
	return out
}

// Len returns the number of names with an assigned color.
func (a *Assigner) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.colors)
}

// intN must be called with mu held.
func (a *Assigner) intN(n int) int {
	if a.rand != nil {
		return a.rand.IntN(n)
	}
	return rand.IntN(n)
}
