// Package obligation tracks the asynchronous obligations a QUnit test or
// module hook takes on: a stop/start semaphore balance and callbacks
// obtained from assert.async() that must be invoked.
//
// A Scope is a plain value owned by whoever walks the function body. It
// does no traversal itself; callers feed it events and call Close once.
package obligation

import (
	"fmt"

	"github.com/wharflab/qunitlint/internal/jsast"
)

// Finding is an unresolved obligation reported when a scope closes.
type Finding struct {
	Message string
	// Anchor is the node the finding should be reported on.
	Anchor *jsast.Node
}

type handle struct {
	name    string
	anchor  *jsast.Node
	pending bool
}

// Scope is the obligation record of one test callback or hook function.
type Scope struct {
	// anchor receives the stop/start finding.
	anchor *jsast.Node
	// handleAnchor, when set, receives every async finding instead of the
	// creating .async() call.
	handleAnchor *jsast.Node

	stops   int
	handles []*handle
	closed  bool
}

// NewTestScope opens a scope for a test registration call. asyncTest
// registrations pass implicitStop so the body starts one stop() in debt.
func NewTestScope(registration *jsast.Node, implicitStop bool) *Scope {
	s := &Scope{anchor: registration}
	if implicitStop {
		s.stops = 1
	}
	return s
}

// NewHookScope opens a scope for a module hook. Every finding is anchored
// at the hook's property node.
func NewHookScope(property *jsast.Node) *Scope {
	return &Scope{anchor: property, handleAnchor: property}
}

// Anchor returns the node stop/start findings are reported on.
func (s *Scope) Anchor() *jsast.Node { return s.anchor }

// Stop records stop(n).
func (s *Scope) Stop(n int) { s.stops += n }

// Start records start(n).
func (s *Scope) Start(n int) { s.stops -= n }

// Bind records `name = <receiver>.async()`. Binding a name again resets it
// to pending and re-anchors it at the new call while keeping its original
// reporting position.
func (s *Scope) Bind(name string, asyncCall *jsast.Node) {
	if h := s.lookup(name); h != nil {
		h.pending = true
		h.anchor = asyncCall
		return
	}
	s.handles = append(s.handles, &handle{name: name, anchor: asyncCall, pending: true})
}

// Call records a bare call `name()`. Names that are not bound handles are
// ignored.
func (s *Scope) Call(name string) {
	if h := s.lookup(name); h != nil {
		h.pending = false
	}
}

// IsHandle reports whether name is bound to an async handle in this scope.
func (s *Scope) IsHandle(name string) bool {
	return s.lookup(name) != nil
}

func (s *Scope) lookup(name string) *handle {
	for _, h := range s.handles {
		if h.name == name {
			return h
		}
	}
	return nil
}

// Close ends the scope and returns its findings. Unresolved async handles
// are reported one per handle in declaration order. Only when every handle
// is resolved is a positive stop/start balance reported. Calling Close
// again returns nil.
func (s *Scope) Close() []Finding {
	if s.closed {
		return nil
	}
	s.closed = true

	var findings []Finding
	for _, h := range s.handles {
		if !h.pending {
			continue
		}
		anchor := h.anchor
		if s.handleAnchor != nil {
			anchor = s.handleAnchor
		}
		findings = append(findings, Finding{Message: UnresolvedAsyncMessage(h.name), Anchor: anchor})
	}
	if len(findings) > 0 {
		return findings
	}
	if s.stops > 0 {
		return []Finding{{Message: MissingStartMessage(s.stops), Anchor: s.anchor}}
	}
	return nil
}

// MissingStartMessage formats the unbalanced stop/start message.
func MissingStartMessage(n int) string {
	if n == 1 {
		return "Need 1 more start() call"
	}
	return fmt.Sprintf("Need %d more start() calls", n)
}

// UnresolvedAsyncMessage formats the uncalled async callback message.
func UnresolvedAsyncMessage(name string) string {
	return `Async callback "` + name + `" is not called`
}
