// Package batch provides chunked, optionally concurrent bulk operations
// over a generator Tree. It is adapted from the teacher library's
// internal/batch (BatchProcessor / ParallelBatchProcessor over a
// *big.Int-indexed SparseMerkleTree): same chunking and worker-pool
// concurrency shape, retargeted from *big.Int indices to csal.Key and from
// an enables-bitmask UpdateProof to the opcode proof csal.Tree.Prove
// produces. This package is generator/test tooling (§1 out-of-scope
// excludes only the on-chain validator's host I/O and VM internals, not
// off-chain batch tooling built on top of the generator tree).
package batch

import (
	"fmt"
	"sync"

	"github.com/nervosnetwork/csal"
)

// OperationType selects what Processor.Process does with an Operation.
type OperationType int

const (
	Insert OperationType = iota
	Update
	Delete
)

// Operation is a single change to apply to a Tree.
type Operation struct {
	Type  OperationType
	Key   csal.Key
	Value csal.Value
}

// Result carries the outcome of one Operation.
type Result struct {
	Key     csal.Key
	Success bool
	Error   error
}

// Processor applies batches of operations to a Tree, splitting batches
// larger than maxBatch into sequential chunks to bound per-call memory use.
type Processor struct {
	tree     *csal.Tree
	maxBatch int
	mu       sync.Mutex
}

// NewProcessor returns a Processor over tree, chunking batches at maxBatchSize.
func NewProcessor(tree *csal.Tree, maxBatchSize int) *Processor {
	return &Processor{tree: tree, maxBatch: maxBatchSize}
}

// Process applies operations in order, returning one Result per operation.
func (p *Processor) Process(operations []Operation) ([]Result, error) {
	if len(operations) == 0 {
		return nil, nil
	}
	if len(operations) > p.maxBatch {
		return p.processChunked(operations)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, len(operations))
	for i, op := range operations {
		results[i] = p.apply(op)
	}
	return results, nil
}

func (p *Processor) processChunked(operations []Operation) ([]Result, error) {
	all := make([]Result, 0, len(operations))
	for i := 0; i < len(operations); i += p.maxBatch {
		end := i + p.maxBatch
		if end > len(operations) {
			end = len(operations)
		}
		results, err := p.Process(operations[i:end])
		if err != nil {
			return all, err
		}
		all = append(all, results...)
	}
	return all, nil
}

func (p *Processor) apply(op Operation) Result {
	result := Result{Key: op.Key}
	var err error
	switch op.Type {
	case Insert:
		err = p.tree.Insert(op.Key, op.Value)
	case Update:
		err = p.tree.Update(op.Key, op.Value)
	case Delete:
		err = p.tree.Delete(op.Key)
	default:
		err = fmt.Errorf("batch: unsupported operation type: %d", op.Type)
	}
	result.Success = err == nil
	result.Error = err
	return result
}

// BatchInsert inserts every (key, value) pair in order.
func (p *Processor) BatchInsert(keys []csal.Key, values []csal.Value) ([]Result, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("batch: keys and values length mismatch: %d != %d", len(keys), len(values))
	}
	ops := make([]Operation, len(keys))
	for i, k := range keys {
		ops[i] = Operation{Type: Insert, Key: k, Value: values[i]}
	}
	return p.Process(ops)
}

// BatchUpdate updates every (key, value) pair in order.
func (p *Processor) BatchUpdate(keys []csal.Key, values []csal.Value) ([]Result, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("batch: keys and values length mismatch: %d != %d", len(keys), len(values))
	}
	ops := make([]Operation, len(keys))
	for i, k := range keys {
		ops[i] = Operation{Type: Update, Key: k, Value: values[i]}
	}
	return p.Process(ops)
}

// ParallelProcessor fans a batch out across independent Trees (e.g. shards
// or per-account sub-trees in a test harness), each owned by its own
// Processor, and runs each shard's share of the batch on its own goroutine.
type ParallelProcessor struct {
	processors []*Processor
}

// NewParallelProcessor wraps one Processor (maxBatchSize operations per
// chunk) per tree.
func NewParallelProcessor(trees []*csal.Tree, maxBatchSize int) *ParallelProcessor {
	processors := make([]*Processor, len(trees))
	for i, tree := range trees {
		processors[i] = NewProcessor(tree, maxBatchSize)
	}
	return &ParallelProcessor{processors: processors}
}

// ProcessSharded splits operations evenly across the wrapped trees and runs
// each shard concurrently, returning one result slice per shard in order.
func (pp *ParallelProcessor) ProcessSharded(operations []Operation) ([][]Result, error) {
	if len(operations) == 0 {
		return nil, nil
	}
	n := len(pp.processors)
	chunkSize := (len(operations) + n - 1) / n
	results := make([][]Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		start := i * chunkSize
		if start >= len(operations) {
			break
		}
		end := start + chunkSize
		if end > len(operations) {
			end = len(operations)
		}

		wg.Add(1)
		go func(shard int, chunk []Operation) {
			defer wg.Done()
			r, err := pp.processors[shard].Process(chunk)
			results[shard] = r
			errs[shard] = err
		}(i, operations[start:end])
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("batch: shard %d: %w", i, err)
		}
	}
	return results, nil
}
