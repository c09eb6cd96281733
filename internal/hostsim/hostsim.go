// Package hostsim provides an in-process fake of csal.Host for tests and
// examples, standing in for the real cell/witness-loading syscalls a CKB
// script would use (out of scope per spec §1). It replaces the teacher
// library's internal/simulator, which simulated a Solidity-compatible root
// computation — not relevant to this domain — with a simulator for the
// actual host surface this validator depends on.
package hostsim

import "github.com/nervosnetwork/csal"

// Cell models one side of the account cell transition: a root plus whether
// the cell exists at all (absent means creation on the input side, or
// destruction on the output side).
type Cell struct {
	Root   csal.Digest
	Exists bool
}

// Host is a scriptable fake of csal.Host.
type Host struct {
	Input   Cell
	Output  Cell
	Args    []byte
	Content []byte
}

// NewHost builds a Host for a normal (non-creation, non-destruction)
// transition between inputRoot and outputRoot, with content delivered at
// the lock-witness location (flags = 0).
func NewHost(inputRoot, outputRoot csal.Digest, content []byte) *Host {
	return &Host{
		Input:   Cell{Root: inputRoot, Exists: true},
		Output:  Cell{Root: outputRoot, Exists: true},
		Args:    make([]byte, 8),
		Content: content,
	}
}

// WithLocation sets the script-args flag word to select witness location.
func (h *Host) WithLocation(loc csal.WitnessLocation) *Host {
	args := make([]byte, 8)
	args[0] = byte(loc)
	h.Args = args
	return h
}

func (h *Host) LoadInputRoot() (csal.Digest, bool, error)  { return h.Input.Root, h.Input.Exists, nil }
func (h *Host) LoadOutputRoot() (csal.Digest, bool, error) { return h.Output.Root, h.Output.Exists, nil }
func (h *Host) LoadScriptArgs() ([]byte, error)            { return h.Args, nil }
func (h *Host) LoadWitnessContent(loc csal.WitnessLocation) ([]byte, error) {
	return h.Content, nil
}
