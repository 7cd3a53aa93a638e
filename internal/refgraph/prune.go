// Package refgraph models the document's schema definitions as a directed
// reference graph and removes every definition unreachable from a surviving
// operation. A worklist-based mark-and-sweep handles cycles and deep nesting
// uniformly; pruning is idempotent.
package refgraph

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/apiforge/certpack/internal/swagger"
)

// Prune returns a copy of doc whose definitions mapping contains exactly the
// schemas reachable from the remaining operations. Any unresolvable $ref
// anywhere in the document is a fatal IntegrityError carrying the offending
// reference and its location; a broken source document must never be masked
// by silently dropping the reference.
func Prune(doc *swagger.Document) (*swagger.Document, error) {
	if err := swagger.Verify(doc); err != nil {
		return nil, err
	}

	out, err := doc.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}

	// Intern definition names to dense indices for the bitmap mark set.
	names := make([]string, 0, len(out.Definitions))
	for name := range out.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	index := make(map[string]uint32, len(names))
	for i, name := range names {
		index[name] = uint32(i)
	}

	// Mark phase. Roots are the schemas referenced directly from surviving
	// operations; the raw-tree walk includes references held inside vendor
	// extensions. Verify has already guaranteed every ref resolves.
	rawPaths, err := swagger.Raw(out.Paths)
	if err != nil {
		return nil, fmt.Errorf("building paths tree: %w", err)
	}
	var worklist []string
	for _, site := range swagger.RefsIn(rawPaths) {
		name, _ := swagger.DefinitionName(site.Ref)
		worklist = append(worklist, name)
	}

	marked := roaring.New()
	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		i := index[name]
		if marked.Contains(i) {
			continue // cycle or shared subtree, already visited
		}
		marked.Add(i)

		rawDef, err := swagger.Raw(out.Definitions[name])
		if err != nil {
			return nil, fmt.Errorf("building tree for definition %s: %w", name, err)
		}
		for _, site := range swagger.RefsIn(rawDef) {
			next, _ := swagger.DefinitionName(site.Ref)
			if !marked.Contains(index[next]) {
				worklist = append(worklist, next)
			}
		}
	}

	// Sweep phase.
	for _, name := range names {
		if !marked.Contains(index[name]) {
			delete(out.Definitions, name)
		}
	}
	return out, nil
}
