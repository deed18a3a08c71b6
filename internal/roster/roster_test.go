package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeStorage struct {
	bucket, object string
	data           []byte
	err            error
}

func (f *fakeStorage) Fetch(ctx context.Context, bucket, objectName string) ([]byte, error) {
	f.bucket, f.object = bucket, objectName
	return f.data, f.err
}

func TestBundledRoster(t *testing.T) {
	r, err := Bundled(context.Background())
	if err != nil {
		t.Fatalf("Bundled returned error: %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("expected bundled engineers")
	}
	found := false
	for _, s := range r.Summaries() {
		if s.EngineerID == "eng-7" && s.Name == "R. Rao" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected eng-7 in bundled roster")
	}
}

func TestSummariesReturnsCopy(t *testing.T) {
	r, err := Parse(context.Background(), []byte(`[{"engineerId":"a","name":"A","specialization":"Civil"}]`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	first := r.Summaries()
	first[0].Name = "changed"
	if r.Summaries()[0].Name != "A" {
		t.Fatal("expected roster to be unaffected by caller mutation")
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not an array", data: `{"engineerId":"a"}`},
		{name: "missing name", data: `[{"engineerId":"a","specialization":"Civil"}]`},
		{name: "negative experience", data: `[{"engineerId":"a","name":"A","specialization":"Civil","experience":-1}]`},
	}
	for _, tc := range tests {
		if _, err := Parse(context.Background(), []byte(tc.data)); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse(context.Background(), []byte(`[`)); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engineers.json")
	if err := os.WriteFile(path, []byte(`[{"engineerId":"x","name":"X","specialization":"MEP","experience":3}]`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	r, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if r.Len() != 1 || r.Summaries()[0].Experience != 3 {
		t.Fatalf("unexpected roster: %+v", r.Summaries())
	}

	if _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadObject(t *testing.T) {
	store := &fakeStorage{data: []byte(`[{"engineerId":"s3","name":"S","specialization":"Civil"}]`)}
	r, err := LoadObject(context.Background(), store, "site-data", "engineers.json")
	if err != nil {
		t.Fatalf("LoadObject returned error: %v", err)
	}
	if store.bucket != "site-data" || store.object != "engineers.json" {
		t.Fatalf("unexpected fetch target %s/%s", store.bucket, store.object)
	}
	if r.Len() != 1 {
		t.Fatalf("expected one engineer, got %d", r.Len())
	}

	failing := &fakeStorage{err: errors.New("bucket missing")}
	if _, err := LoadObject(context.Background(), failing, "b", "o"); err == nil {
		t.Fatal("expected storage error")
	}
}

func TestNilRosterIsEmpty(t *testing.T) {
	var r *Roster
	if r.Len() != 0 || len(r.Summaries()) != 0 {
		t.Fatal("expected empty nil roster")
	}
}
