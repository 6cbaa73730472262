package canon

// warningSet deduplicates warnings in insertion order and drops new entries
// past the cap so a pathological file cannot bloat dataset metadata.
type warningSet struct {
	limit   int
	seen    map[string]struct{}
	entries []string
}

func newWarningSet(limit int) *warningSet {
	return &warningSet{
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

func (w *warningSet) add(warning string) {
	if _, dup := w.seen[warning]; dup {
		return
	}
	if len(w.entries) >= w.limit {
		return
	}
	w.seen[warning] = struct{}{}
	w.entries = append(w.entries, warning)
}

func (w *warningSet) len() int {
	return len(w.entries)
}

func (w *warningSet) list() []string {
	if w.entries == nil {
		return []string{}
	}
	return w.entries
}
