package csal

import "encoding/binary"

// WitnessLocation selects which witness field (lock or type) carries the
// account-layer content, per the script-args flag word (§6).
type WitnessLocation uint8

const (
	WitnessLocationLock WitnessLocation = 0
	WitnessLocationType WitnessLocation = 1
)

// flagWitnessLocation is the only defined bit in the 8-byte script-args
// flag word; every other bit is reserved.
const flagWitnessLocation uint64 = 0x1

// Host abstracts the blockchain collaborator surface the validator harness
// needs: loading the input/output cell roots, the script args, and the
// witness content. It deliberately says nothing about cells, scripts, or
// witness container framing beyond this — those concerns are out of scope
// (spec §1) and belong to the real on-chain script runtime. internal/hostsim
// provides a fake implementation for tests.
type Host interface {
	// LoadInputRoot returns the input cell's committed root. exists is
	// false when the cell does not yet exist (first-creation path), in
	// which case root is treated as all-zero regardless of the returned
	// value.
	LoadInputRoot() (root Digest, exists bool, err error)

	// LoadOutputRoot returns the output cell's committed root. exists is
	// false when the output cell does not exist.
	LoadOutputRoot() (root Digest, exists bool, err error)

	// LoadScriptArgs returns the script's args bytes; the first 8 bytes
	// are the little-endian flag word (§6).
	LoadScriptArgs() ([]byte, error)

	// LoadWitnessContent returns the account-layer witness content at the
	// given location. It is the content *bytes* already extracted from
	// whatever witness container framing the host uses — molecule framing
	// and witness-args structure are out of scope (§1).
	LoadWitnessContent(loc WitnessLocation) ([]byte, error)
}

// VM abstracts the pluggable deterministic program the validator executes
// against the read set to obtain a write set (§6's execute_vm contract).
// Reads go through existing.Fetch, which fails with ErrNotFound if the
// program reads a key the witness did not declare. Writes must be
// appended to changes via changes.Insert in execution order, and should
// also be reflected back into existing so that a later read of the same
// key in the same program observes the new value.
type VM interface {
	Execute(source []byte, existing *ChangeSet, changes *ChangeSet) error
}

// Validate runs the full harness contract of §4.5 / §6: it loads roots,
// parses the witness, verifies the read set against the input root,
// invokes the VM, verifies the pre-images of the write set against the
// input root, and finally checks that re-running the write proof with the
// new values reproduces the claimed output root.
func Validate(host Host, vm VM) error {
	args, err := host.LoadScriptArgs()
	if err != nil {
		return err
	}
	if len(args) < 8 {
		return ErrInvalidData
	}
	flags := binary.LittleEndian.Uint64(args[:8])
	if flags&^flagWitnessLocation != 0 {
		return ErrUnsupportedFlags
	}
	location := WitnessLocation(flags & flagWitnessLocation)

	inputRoot, inputExists, err := host.LoadInputRoot()
	if err != nil {
		return err
	}
	if !inputExists {
		inputRoot = Digest{}
	}

	content, err := host.LoadWitnessContent(location)
	if err != nil {
		return err
	}

	outputRoot, outputExists, err := host.LoadOutputRoot()
	if err != nil {
		return err
	}
	if !outputExists {
		if len(content) == 0 {
			return nil // cell destruction
		}
		return ErrInvalidData
	}

	reader := NewWitnessReader(content)

	sourceLen, err := reader.Uint32()
	if err != nil {
		return err
	}
	source, err := reader.Bytes(int(sourceLen))
	if err != nil {
		return err
	}

	readsCount, err := reader.Uint32()
	if err != nil {
		return err
	}
	if int(readsCount) > MaxChanges {
		return &TooManyChangesError{Count: int(readsCount), Max: MaxChanges}
	}

	reads, releaseReads := NewPooledChangeSet()
	defer releaseReads()
	for i := uint32(0); i < readsCount; i++ {
		k, err := reader.Key()
		if err != nil {
			return err
		}
		v, err := reader.Value()
		if err != nil {
			return err
		}
		if err := reads.Insert(k, v); err != nil {
			return err
		}
	}
	reads.Organize()

	readProofLen, err := reader.Uint32()
	if err != nil {
		return err
	}
	readProof, err := reader.Bytes(int(readProofLen))
	if err != nil {
		return err
	}
	if err := Verify(inputRoot, reads, readProof); err != nil {
		return err
	}

	writes, releaseWrites := NewPooledChangeSet()
	defer releaseWrites()
	if err := vm.Execute(source, reads, writes); err != nil {
		return err
	}
	writes.Organize()

	oldValues, releaseOld := NewPooledChangeSet()
	defer releaseOld()
	for _, e := range writes.Entries() {
		oldValue, err := reader.Value()
		if err != nil {
			return err
		}
		if err := oldValues.Insert(e.Key, oldValue); err != nil {
			return err
		}
	}
	oldValues.Organize()

	writeProofLen, err := reader.Uint32()
	if err != nil {
		return err
	}
	writeProof, err := reader.Bytes(int(writeProofLen))
	if err != nil {
		return err
	}
	if err := Verify(inputRoot, oldValues, writeProof); err != nil {
		return err
	}

	newRoot, err := UpdateRoot(writes, writeProof)
	if err != nil {
		return err
	}
	if newRoot != outputRoot {
		return ErrInvalidRootHash
	}
	return nil
}
