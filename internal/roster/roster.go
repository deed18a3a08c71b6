// Package roster serves the static engineer directory cards. The list is
// loaded once at start up and never changes while the process runs.
package roster

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

//go:embed engineers.json
var bundled []byte

//go:embed engineers.schema.json
var schemaJSON []byte

type Roster struct {
	items []domain.EngineerSummary
}

// Bundled returns the roster compiled into the binary.
func Bundled(ctx context.Context) (*Roster, error) {
	return Parse(ctx, bundled)
}

// LoadFile reads the roster from path, or the bundled copy when path is empty.
func LoadFile(ctx context.Context, path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Bundled(ctx)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return Parse(ctx, data)
}

// LoadObject reads the roster from object storage.
func LoadObject(ctx context.Context, store ports.ObjectStorage, bucket, object string) (*Roster, error) {
	data, err := store.Fetch(ctx, bucket, object)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, data)
}

// Parse validates data against the roster schema and decodes it.
func Parse(ctx context.Context, data []byte) (*Roster, error) {
	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(schemaJSON, schema); err != nil {
		return nil, fmt.Errorf("compile roster schema: %w", err)
	}
	keyErrs, err := schema.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("validate roster: %w", err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Error())
		}
		return nil, errors.New("invalid roster: " + strings.Join(msgs, "; "))
	}

	var items []domain.EngineerSummary
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return &Roster{items: items}, nil
}

// Summaries returns a copy of the directory cards in file order.
func (r *Roster) Summaries() []domain.EngineerSummary {
	if r == nil {
		return []domain.EngineerSummary{}
	}
	return append([]domain.EngineerSummary{}, r.items...)
}

func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}
