package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/partledger/pkg/core"
)

// Batch is the content of one file matched by ImportGlob.
type Batch struct {
	File    string
	Records []core.PurchaseRecord
}

// ImportGlob decodes every file under root matching pattern (doublestar syntax,
// e.g. "exports/**/*.csv"). Files are returned in lexical order; files without a
// registered serializer are skipped.
func ImportGlob(root, pattern string, serializers map[string]Serializer) ([]Batch, error) {
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to match %q: %w", pattern, err)
	}
	slices.Sort(matches)

	batches := make([]Batch, 0, len(matches))
	for _, rel := range matches {
		serializer, ok := serializers[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			continue
		}

		path := filepath.Join(root, filepath.FromSlash(rel))
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		records, err := serializer.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		batches = append(batches, Batch{File: path, Records: records})
	}
	return batches, nil
}
