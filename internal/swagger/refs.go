package swagger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

const definitionsPrefix = "#/definitions/"

// RefSite is one $ref occurrence: the reference string and the JSONPath of
// the node that holds it.
type RefSite struct {
	Location string
	Ref      string
}

// IntegrityError reports every structural defect found in one verification
// pass: unresolvable $ref strings and duplicated operationIds. It always
// indicates a broken source document and is never recoverable.
type IntegrityError struct {
	Dangling     []RefSite
	DuplicateIDs []string
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	b.WriteString("document integrity check failed:")
	for _, site := range e.Dangling {
		fmt.Fprintf(&b, "\n  unresolvable $ref %q at %s", site.Ref, site.Location)
	}
	for _, id := range e.DuplicateIDs {
		fmt.Fprintf(&b, "\n  duplicate operationId %q", id)
	}
	return b.String()
}

// Raw converts any JSON-marshalable value into a generic tree for JSONPath
// traversal.
func Raw(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return oj.Parse(data)
}

// RefsIn walks a generic tree and returns every $ref occurrence with its
// path. The whole-tree walk catches references held inside vendor extension
// values, which a typed walk cannot enumerate.
func RefsIn(tree any) []RefSite {
	var sites []RefSite
	jp.Walk(tree, func(path jp.Expr, value any) {
		if len(path) == 0 {
			return
		}
		child, ok := path[len(path)-1].(jp.Child)
		if !ok || string(child) != "$ref" {
			return
		}
		ref, ok := value.(string)
		if !ok {
			return
		}
		sites = append(sites, RefSite{Location: path.String(), Ref: ref})
	})
	sort.Slice(sites, func(i, j int) bool { return sites[i].Location < sites[j].Location })
	return sites
}

// DefinitionName extracts the schema name from a local definitions reference.
// Returns false for any other reference shape.
func DefinitionName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, definitionsPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// DefinitionRef builds the reference string for a named schema.
func DefinitionRef(name string) string {
	return definitionsPrefix + name
}

// Verify checks the document's structural invariants: every $ref anywhere in
// the document resolves to a present definition, and operationIds are unique.
// All violations found in the pass are reported together.
func Verify(doc *Document) error {
	tree, err := Raw(doc)
	if err != nil {
		return fmt.Errorf("building document tree: %w", err)
	}

	var ierr IntegrityError
	for _, site := range RefsIn(tree) {
		name, ok := DefinitionName(site.Ref)
		if !ok {
			ierr.Dangling = append(ierr.Dangling, site)
			continue
		}
		if _, present := doc.Definitions[name]; !present {
			ierr.Dangling = append(ierr.Dangling, site)
		}
	}

	seen := make(map[string]int)
	for _, ref := range doc.Operations() {
		if id := ref.Operation.OperationID; id != "" {
			seen[id]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			ierr.DuplicateIDs = append(ierr.DuplicateIDs, id)
		}
	}
	sort.Strings(ierr.DuplicateIDs)

	if len(ierr.Dangling) > 0 || len(ierr.DuplicateIDs) > 0 {
		return &ierr
	}
	return nil
}
