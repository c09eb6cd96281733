package csal

import "encoding/binary"

// WitnessReader parses the witness content layout of §6 in order:
//
//	u32          source_len
//	byte[SL]     source
//	u32          reads_count          (<= MaxChanges)
//	[key32 value32] x reads_count
//	u32          read_proof_len
//	byte[RPL]    read_proof
//	[value32]    x writes_count       (old values, aligned to organized writes)
//	u32          write_proof_len
//	byte[WPL]    write_proof
//
// The writes_count section has no length prefix of its own — it is only
// known once the VM has run and its write set has been organized, so
// WitnessReader exposes a streaming cursor (grounded on
// original_source/c/validator.h's reader_t / reader_bytes / reader_uint32)
// rather than a single all-at-once Parse.
type WitnessReader struct {
	data   []byte
	offset int
}

// NewWitnessReader wraps witness content bytes for sequential reads.
func NewWitnessReader(data []byte) *WitnessReader {
	return &WitnessReader{data: data}
}

// Bytes consumes and returns the next n bytes.
func (r *WitnessReader) Bytes(n int) ([]byte, error) {
	if len(r.data)-r.offset < n {
		return nil, ErrInvalidData
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// Uint32 consumes and returns the next little-endian u32.
func (r *WitnessReader) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Key consumes and returns the next 32-byte key.
func (r *WitnessReader) Key() (Key, error) {
	b, err := r.Bytes(KeyBytes)
	if err != nil {
		return Key{}, err
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// Value consumes and returns the next 32-byte value.
func (r *WitnessReader) Value() (Value, error) {
	b, err := r.Bytes(ValueBytes)
	if err != nil {
		return Value{}, err
	}
	var v Value
	copy(v[:], b)
	return v, nil
}

// Remaining reports how many bytes are left unconsumed.
func (r *WitnessReader) Remaining() int {
	return len(r.data) - r.offset
}

// WitnessWriter builds witness content bytes in the §6 layout. It is the
// inverse of WitnessReader and is used by the generator side and test
// fixtures to build witnesses the harness can parse.
type WitnessWriter struct {
	buf []byte
}

// NewWitnessWriter returns an empty WitnessWriter.
func NewWitnessWriter() *WitnessWriter { return &WitnessWriter{} }

// PutUint32 appends a little-endian u32.
func (w *WitnessWriter) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutBytes appends raw bytes with no length prefix.
func (w *WitnessWriter) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutLenBytes appends a u32 length prefix followed by the bytes.
func (w *WitnessWriter) PutLenBytes(b []byte) {
	w.PutUint32(uint32(len(b)))
	w.PutBytes(b)
}

// PutKey appends a 32-byte key.
func (w *WitnessWriter) PutKey(k Key) { w.buf = append(w.buf, k[:]...) }

// PutValue appends a 32-byte value.
func (w *WitnessWriter) PutValue(v Value) { w.buf = append(w.buf, v[:]...) }

// Bytes returns the accumulated witness content.
func (w *WitnessWriter) Bytes() []byte { return w.buf }

// BuildWitness assembles a complete witness content blob from its parts,
// matching §6's layout exactly. writeOldValues must already be aligned to
// the organized order of the writes the VM produced.
func BuildWitness(source []byte, reads []Entry, readProof []byte, writeOldValues []Value, writeProof []byte) []byte {
	w := NewWitnessWriter()
	w.PutLenBytes(source)
	w.PutUint32(uint32(len(reads)))
	for _, e := range reads {
		w.PutKey(e.Key)
		w.PutValue(e.Value)
	}
	w.PutLenBytes(readProof)
	for _, v := range writeOldValues {
		w.PutValue(v)
	}
	w.PutLenBytes(writeProof)
	return w.Bytes()
}
