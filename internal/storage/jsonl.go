package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
)

// JsonlEventSink appends audit events to a JSONL file.
type JsonlEventSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlEventSink(path string) *JsonlEventSink {
	return &JsonlEventSink{path: path}
}

// PutEventBatch appends a batch of events as JSON lines.
func (s *JsonlEventSink) PutEventBatch(events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// WritePositionSnapshot overwrites path with one JSON line per record.
func WritePositionSnapshot(path string, records []model.PositionRecord) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal position record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write position record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	return writer.Flush()
}

// ReadInstructions streams instructions from a JSONL file in order,
// invoking fn for each. Blank lines are skipped; a malformed line stops
// the stream with an error naming its line number.
func ReadInstructions(path string, fn func(model.Instruction) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open instructions: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var instruction model.Instruction
		if err := json.Unmarshal(line, &instruction); err != nil {
			return fmt.Errorf("parse instruction line %d: %w", lineNo, err)
		}
		if err := fn(instruction); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read instructions: %w", err)
	}
	return nil
}
