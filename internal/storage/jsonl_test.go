package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coinforge/internal/model"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var out []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		out = append(out, row)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plans.jsonl")
	s := NewJsonlStorage(path)
	ctx := context.Background()

	if err := s.PutPoolPlans(ctx, []model.PoolPlanRecord{{TickLower: 0, TickUpper: 13920}}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.PutPoolPlans(ctx, []model.PoolPlanRecord{{TickLower: -76020, TickUpper: -62150}}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	rows := readLines(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["tick_lower"].(float64) != -76020 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestJsonlStorageSkipsEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.jsonl")
	if err := NewJsonlStorage(path).PutTokenArtifacts(context.Background(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file for empty batch, got %v", err)
	}
}

type failingStorage struct{ err error }

func (f failingStorage) PutTokenArtifacts(context.Context, []model.TokenArtifact) error { return f.err }
func (f failingStorage) PutPoolPlans(context.Context, []model.PoolPlanRecord) error { return f.err }

func TestMultiWritesEverySink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.jsonl")
	sinkErr := errors.New("sink down")
	m := Multi{failingStorage{err: sinkErr}, NewJsonlStorage(path)}

	err := m.PutTokenArtifacts(context.Background(), []model.TokenArtifact{{Symbol: "MCCQ"}})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
	rows := readLines(t, path)
	if len(rows) != 1 || rows[0]["symbol"] != "MCCQ" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
