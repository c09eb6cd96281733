// Package vectors holds JSON-fixture test-vector types with their load and
// save helpers; cmd/genfixtures writes ProofTestVector files with them. The
// scenario tests in proof_test.go build their fixtures inline and do not
// load these files.
// Adapted from the teacher library's internal/vectors (HashTestVector /
// ProofTestVector), retargeted from *big.Int tree indices and an
// enables-bitmask proof encoding to 32-byte hex keys/values and the opcode
// proof stream hex-encoded.
package vectors

// HashTestVector checks leaf/internal digest computation against known
// Blake2b-256 outputs.
type HashTestVector struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	Expected string `json:"expected"`
}

// ProofTestVector exercises Verify/UpdateRoot against a known proof stream.
type ProofTestVector struct {
	Name     string   `json:"name"`
	Root     string   `json:"root"`
	Keys     []string `json:"keys"`
	Values   []string `json:"values"`
	Proof    string   `json:"proof"`
	Expected string   `json:"expected"`
}

// SequentialStep is one step of a scenario that inserts leaves one at a
// time into a generator tree and records the resulting root, mirroring §8
// scenario E.
type SequentialStep struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	ExpectedRoot string `json:"expectedRoot"`
}

// WitnessTestVector exercises the full Validate harness end to end.
type WitnessTestVector struct {
	Name       string   `json:"name"`
	InputRoot  string   `json:"inputRoot"`
	OutputRoot string   `json:"outputRoot"`
	Source     string   `json:"source"`
	ReadKeys   []string `json:"readKeys"`
	ReadValues []string `json:"readValues"`
	ExpectErr  bool     `json:"expectErr"`
}
