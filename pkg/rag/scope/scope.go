package scope

// Scope restricts retrieval to a set of document identifiers. A chunk is in
// scope when its owning file id equals any id in the set (OR-combined
// equality). The zero value matches nothing and disables retrieval.
type Scope struct {
	fileIds []string
}

// Build constructs a Scope from a list of file ids, dropping blanks and
// duplicates. Pure and deterministic; malformed ids simply match nothing
// downstream.
func Build(fileIds []string) Scope {
	seen := make(map[string]bool, len(fileIds))
	var ids []string
	for _, id := range fileIds {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Scope{fileIds: ids}
}

func (s Scope) IsEmpty() bool {
	return len(s.fileIds) == 0
}

// FileIds returns a copy of the scope members, safe for callers to retain.
func (s Scope) FileIds() []string {
	out := make([]string, len(s.fileIds))
	copy(out, s.fileIds)
	return out
}

func (s Scope) Contains(fileId string) bool {
	for _, id := range s.fileIds {
		if id == fileId {
			return true
		}
	}
	return false
}
