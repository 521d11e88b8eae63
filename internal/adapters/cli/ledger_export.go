package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
)

// TurnExporter writes turn records as zstd-compressed JSON lines
type TurnExporter struct {
	enc   *zstd.Encoder
	w     *bufio.Writer
	count int
}

// NewTurnExporter wraps w. Close must be called to flush the zstd frame;
// it does not close w.
func NewTurnExporter(w io.Writer) (*TurnExporter, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &TurnExporter{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Write appends one record
func (e *TurnExporter) Write(turn *queries.TurnRecordDTO) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to encode turn %d: %w", turn.TurnNumber, err)
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return err
	}
	e.count++
	return nil
}

// Count returns how many records were written
func (e *TurnExporter) Count() int {
	return e.count
}

func (e *TurnExporter) Close() error {
	if err := e.w.Flush(); err != nil {
		_ = e.enc.Close()
		return err
	}
	return e.enc.Close()
}

// ReadTurnExport decodes a stream produced by TurnExporter
func ReadTurnExport(r io.Reader) ([]*queries.TurnRecordDTO, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	var turns []*queries.TurnRecordDTO
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var turn queries.TurnRecordDTO
		if err := json.Unmarshal(scanner.Bytes(), &turn); err != nil {
			return nil, fmt.Errorf("failed to decode turn line: %w", err)
		}
		turns = append(turns, &turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}
