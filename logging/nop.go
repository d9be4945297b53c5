// Package logging provides a discard logger and, via the
// zap subpackage, the production logging factory. Log formatting lives
// outside the core; this package is the external collaborator that
// supplies it.
package logging

import "dvrouter/core"

type nop struct{}

// Nop returns a core.Logger that discards everything.
func Nop() core.Logger { return nop{} }

func (nop) Named(string) core.Logger         { return nop{} }
func (nop) With(...core.Field) core.Logger   { return nop{} }
func (nop) Debug(string, ...core.Field)      {}
func (nop) Info(string, ...core.Field)       {}
func (nop) Warn(string, ...core.Field)       {}
func (nop) Error(string, ...core.Field)      {}
