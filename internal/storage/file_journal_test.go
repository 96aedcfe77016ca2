package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

func TestFileJournalAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")
	ctx := context.Background()

	first := model.TxRecord{Hash: "0x01", Function: "0xabc::vault::init_vault", Stage: "confirmed", Success: true}
	second := model.TxRecord{Function: "0xabc::vault::acl_add", Stage: "build", Error: "boom", Args: []string{"address:0x2"}}

	journal, err := OpenFileJournal(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := journal.PutTxRecords(ctx, []model.TxRecord{first}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := journal.PutTxRecords(ctx, nil); err != nil {
		t.Fatalf("empty write: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	journal, err = OpenFileJournal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := journal.PutTxRecords(ctx, []model.TxRecord{second}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadFileJournal(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Hash != "0x01" || !got[0].Success {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Stage != "build" || got[1].Error != "boom" || !reflect.DeepEqual(got[1].Args, []string{"address:0x2"}) {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
}

func TestReadFileJournalErrors(t *testing.T) {
	if _, err := ReadFileJournal(filepath.Join(t.TempDir(), "missing.jsonl")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.jsonl")
	if err := os.WriteFile(path, []byte("{\"hash\":\"0x1\"}\nnot-json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFileJournal(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if len(got) != 1 || got[0].Hash != "0x1" {
		t.Fatalf("expected the valid prefix, got %+v", got)
	}
}

type failingJournal struct{ calls int }

func (f *failingJournal) PutTxRecords(context.Context, []model.TxRecord) error {
	f.calls++
	return errors.New("disk full")
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	failing := &failingJournal{}
	after := &failingJournal{}
	err := Multi{nil, failing, after}.PutTxRecords(context.Background(), []model.TxRecord{{Hash: "0x1"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if failing.calls != 1 || after.calls != 0 {
		t.Fatalf("unexpected calls: failing=%d after=%d", failing.calls, after.calls)
	}
}
