// Package vm defines a reference implementation of the pluggable program
// contract the validator harness invokes between verifying reads and
// verifying writes (spec §1, §6): Dummy, a Go port of the reference R/W
// instruction language from original_source/c/vms/dummy/dummy_vm.c. Real VM
// backends (the pluggable interpreter the account-layer script actually
// runs) are out of scope; this package exists so the harness and its tests
// have something concrete to execute.
package vm

import (
	"fmt"

	"github.com/nervosnetwork/csal"
)

// operationLength is 1 opcode byte + one 32-byte key + one 32-byte value.
const operationLength = 1 + csal.KeyBytes + csal.ValueBytes

// Dummy implements the 2-opcode reference program language:
//
//	R <key32> <value32>   assert existing[key] == value
//	W <key32> <value32>   existing[key] = value; changes[key] = value
//
// source length must be a multiple of operationLength. Dummy satisfies
// csal.VM.
type Dummy struct{}

// Execute runs source against existing, recording writes into changes.
func (Dummy) Execute(source []byte, existing *csal.ChangeSet, changes *csal.ChangeSet) error {
	if len(source)%operationLength != 0 {
		return fmt.Errorf("vm: source length %d is not a multiple of %d", len(source), operationLength)
	}
	for i := 0; i < len(source); i += operationLength {
		op := source[i]
		var key csal.Key
		var value csal.Value
		copy(key[:], source[i+1:i+1+csal.KeyBytes])
		copy(value[:], source[i+1+csal.KeyBytes:i+operationLength])

		switch op {
		case 'R':
			got, err := existing.Fetch(key)
			if err != nil {
				return err
			}
			if got != value {
				return fmt.Errorf("vm: read mismatch at key %s", key)
			}
		case 'W':
			if err := existing.Insert(key, value); err != nil {
				return err
			}
			if err := changes.Insert(key, value); err != nil {
				return err
			}
		default:
			return fmt.Errorf("vm: unknown opcode %q", op)
		}
	}
	return nil
}
