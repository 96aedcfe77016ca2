package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// FileJournal appends one JSON object per transaction record to a file that
// stays open for the life of the journal.
type FileJournal struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenFileJournal opens path for appending, creating parent directories.
func OpenFileJournal(path string) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &FileJournal{file: file, enc: json.NewEncoder(file)}, nil
}

// PutTxRecords writes records and syncs them to disk.
func (j *FileJournal) PutTxRecords(_ context.Context, records []model.TxRecord) error {
	if len(records) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, record := range records {
		if err := j.enc.Encode(record); err != nil {
			return fmt.Errorf("append %s: %w", record.Function, err)
		}
	}
	return j.file.Sync()
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadFileJournal decodes every record in a journal file, oldest first.
func ReadFileJournal(path string) ([]model.TxRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []model.TxRecord
	dec := json.NewDecoder(file)
	for dec.More() {
		var rec model.TxRecord
		if err := dec.Decode(&rec); err != nil {
			return records, fmt.Errorf("decode record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
