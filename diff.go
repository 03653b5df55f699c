package lingo

// DiffResult is the difference between two versions of a source message
// file. Entries keep the order of the file they came from.
type DiffResult struct {
	// Added holds keys present only in the current version.
	Added []Entry

	// Removed holds keys present only in the previous version.
	Removed []Entry

	// Unchanged holds keys whose text is identical in both versions.
	Unchanged []Entry

	// Modified holds keys whose text changed.
	Modified []ModifiedEntry

	pending []Entry // Added and modified, in current order
}

// ModifiedEntry is a key whose source text changed.
type ModifiedEntry struct {
	Key string
	Old string
	New string
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the new and modified messages in the order of
// the current version.
func (d *DiffResult) NeedsTranslation() *MessageMap {
	return NewMessageMap(d.pending...)
}

// DiffMessages compares two versions of a source message file by key. This
// is what makes incremental translation possible: only the messages that
// changed are sent to the model.
func DiffMessages(previous, current *MessageMap) *DiffResult {
	result := &DiffResult{}

	for _, e := range current.Entries() {
		old, ok := previous.Get(e.Key)
		switch {
		case !ok:
			result.Added = append(result.Added, e)
			result.pending = append(result.pending, e)
		case old != e.Value:
			result.Modified = append(result.Modified, ModifiedEntry{Key: e.Key, Old: old, New: e.Value})
			result.pending = append(result.pending, e)
		default:
			result.Unchanged = append(result.Unchanged, e)
		}
	}

	for _, e := range previous.Entries() {
		if !current.Has(e.Key) {
			result.Removed = append(result.Removed, e)
		}
	}

	return result
}

// MergeMessages builds the target file for source: each key takes its value
// from translated, then from existing, then falls back to the source text.
// Keys not in source are dropped and source order is kept.
func MergeMessages(source, existing, translated *MessageMap) *MessageMap {
	out := NewMessageMap()
	for _, e := range source.Entries() {
		if v, ok := translated.Get(e.Key); ok {
			out.Set(e.Key, v)
			continue
		}
		if v, ok := existing.Get(e.Key); ok {
			out.Set(e.Key, v)
			continue
		}
		out.Set(e.Key, e.Value)
	}
	return out
}
