package lingo

import (
	"testing"
)

func messagesOf(pairs ...string) *MessageMap {
	m := NewMessageMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func TestDiffMessages_NoChanges(t *testing.T) {
	m := messagesOf("a", "Hello", "b", "World")

	diff := DiffMessages(m, m.Clone())

	if diff.HasChanges() {
		t.Error("Expected no changes for identical content")
	}
	if len(diff.Unchanged) != 2 {
		t.Errorf("Expected 2 unchanged, got %d", len(diff.Unchanged))
	}
	if diff.NeedsTranslation().Len() != 0 {
		t.Error("Nothing should need translation")
	}
}

func TestDiffMessages_AllNew(t *testing.T) {
	diff := DiffMessages(nil, messagesOf("a", "Hello", "b", "World"))

	if len(diff.Added) != 2 {
		t.Errorf("Expected 2 added, got %d", len(diff.Added))
	}
	if len(diff.Removed) != 0 {
		t.Errorf("Expected 0 removed, got %d", len(diff.Removed))
	}
}

func TestDiffMessages_AllRemoved(t *testing.T) {
	diff := DiffMessages(messagesOf("a", "Hello", "b", "World"), NewMessageMap())

	if len(diff.Added) != 0 {
		t.Errorf("Expected 0 added, got %d", len(diff.Added))
	}
	if len(diff.Removed) != 2 {
		t.Errorf("Expected 2 removed, got %d", len(diff.Removed))
	}
	if !diff.HasChanges() {
		t.Error("Removals are changes")
	}
}

func TestDiffMessages_Mixed(t *testing.T) {
	previous := messagesOf("title", "Welcome", "body", "Old text", "footer", "Bye")
	current := messagesOf("new", "Fresh", "title", "Welcome", "body", "New text")

	diff := DiffMessages(previous, current)

	want := DiffStats{Added: 1, Removed: 1, Unchanged: 1, Modified: 1}
	if got := diff.Stats(); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	m := diff.Modified[0]
	if m.Key != "body" || m.Old != "Old text" || m.New != "New text" {
		t.Errorf("Unexpected modification: %+v", m)
	}
	if diff.Removed[0].Key != "footer" {
		t.Errorf("Expected footer removed, got %+v", diff.Removed)
	}

	needs := diff.NeedsTranslation()
	keys := needs.Keys()
	if len(keys) != 2 || keys[0] != "new" || keys[1] != "body" {
		t.Errorf("Expected [new body] in current order, got %v", keys)
	}
}

func TestMergeMessages(t *testing.T) {
	source := messagesOf("a", "One", "b", "Two", "c", "Three")
	existing := messagesOf("b", "Deux", "a", "Un (old)", "gone", "Parti")
	translated := messagesOf("a", "Un")

	got := MergeMessages(source, existing, translated)

	want := []Entry{
		{Key: "a", Value: "Un"},
		{Key: "b", Value: "Deux"},
		{Key: "c", Value: "Three"},
	}
	entries := got.Entries()
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}
