package main

import (
	"testing"
	"time"
)

func TestParseEntries_Embedded(t *testing.T) {
	docs, err := parseEntries(defaultEntries)
	if err != nil {
		t.Fatalf("parseEntries: %v", err)
	}
	if len(docs) < 40 {
		t.Fatalf("expected the full sample set, got %d", len(docs))
	}
	seen := map[string]bool{}
	for i, d := range docs {
		if d.UserName == nil || d.Comment == nil || d.Rating == nil {
			t.Fatalf("entry %d incomplete: %+v", i, d)
		}
		if *d.Rating < 1 || *d.Rating > 5 {
			t.Fatalf("entry %d rating %d out of range", i, *d.Rating)
		}
		if d.CreatedAt != nil {
			t.Fatalf("entry %d: sample data leaves createdAt to the seeder", i)
		}
		key := *d.UserName + "\x00" + *d.Comment
		if seen[key] {
			t.Fatalf("duplicate sample entry %q", key)
		}
		seen[key] = true
	}
	if *docs[1].Comment != "Ótimo atendimento!" {
		t.Fatalf("non-ASCII text mangled: %q", *docs[1].Comment)
	}
}

func TestParseEntries_OptionalFieldsAndTimestamps(t *testing.T) {
	docs, err := parseEntries([]byte(`
- comment: sem nome
  createdAt: 2025-03-01T10:00:00Z
- userName: Ana
`))
	if err != nil {
		t.Fatalf("parseEntries: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d", len(docs))
	}
	if docs[0].UserName != nil || docs[0].Rating != nil {
		t.Fatalf("absent fields must stay nil: %+v", docs[0])
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if docs[0].CreatedAt == nil || !docs[0].CreatedAt.Equal(want) {
		t.Fatalf("createdAt = %v", docs[0].CreatedAt)
	}
	if docs[1].Comment != nil || *docs[1].UserName != "Ana" {
		t.Fatalf("second entry = %+v", docs[1])
	}
}

func TestParseEntries_Invalid(t *testing.T) {
	if _, err := parseEntries([]byte("userName: [")); err == nil {
		t.Fatalf("expected a parse error")
	}
}
