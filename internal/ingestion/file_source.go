package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// maxPayloadLineBytes bounds a single JSONL line. Transaction payloads with
// large inner-instruction trees can exceed bufio's 64KB default.
const maxPayloadLineBytes = 4 * 1024 * 1024

// FileSource replays transaction payloads from a JSONL capture file, one
// payload object per line. It runs without any network dependency, which makes
// it the source of choice for deterministic backfills and local debugging.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the JSONL file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

var _ TransactionSource = (*FileSource)(nil)

// fileEnvelope is the on-disk line format. Signature and slot live beside the
// raw payload so the runner can attribute decode failures to a transaction.
type fileEnvelope struct {
	Signature string          `json:"signature"`
	Slot      int64           `json:"slot"`
	Payload   json.RawMessage `json:"payload"`
}

// Transactions streams every line of the file in order, then closes the
// channel. Blank lines are skipped. A malformed line aborts the stream; the
// capture file is expected to be machine-written.
func (s *FileSource) Transactions(ctx context.Context) (<-chan Envelope, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}

	out := make(chan Envelope)

	go func() {
		defer close(out)
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxPayloadLineBytes)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var env fileEnvelope
			if err := json.Unmarshal(line, &env); err != nil {
				return
			}

			payload := make([]byte, len(env.Payload))
			copy(payload, env.Payload)

			select {
			case out <- Envelope{Signature: env.Signature, Slot: env.Slot, Payload: payload}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
