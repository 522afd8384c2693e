package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hylla/gengantt/internal/domain"
)

func TestExportSnapshotIncludesExpectedData(t *testing.T) {
	repo := newFakeRepo(
		mustTask(t, "t1", "Task A", "2026-02-01", "2026-02-03", 10, "Dev", "Alex"),
		mustTask(t, "t2", "Task B", "2026-02-02", "2026-02-02", 100, "", ""),
	)
	svc := NewService(repo, nil, fixedClock(), ServiceConfig{})

	snap, err := svc.ExportSnapshot(context.Background())
	if err != nil {
		t.Fatalf("ExportSnapshot() error = %v", err)
	}
	if snap.Version != SnapshotVersion {
		t.Fatalf("unexpected version %q", snap.Version)
	}
	if !snap.ExportedAt.Equal(time.Date(2026, 2, 21, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected exported_at %s", snap.ExportedAt)
	}
	if len(snap.Tasks) != 2 || snap.Tasks[0].ID != "t1" || snap.Tasks[1].ID != "t2" {
		t.Fatalf("unexpected tasks %#v", snap.Tasks)
	}
	if snap.Tasks[0].StartDate != "2026-02-01" || snap.Tasks[0].Assignee != "Alex" {
		t.Fatalf("unexpected task row %#v", snap.Tasks[0])
	}
}

func TestImportSnapshotReplacesList(t *testing.T) {
	repo := newFakeRepo(mustTask(t, "old", "Old", "2026-01-01", "2026-01-02", 0, "", ""))
	svc := NewService(repo, sequenceIDs("fresh"), fixedClock(), ServiceConfig{})

	imported, err := svc.ImportSnapshot(context.Background(), Snapshot{
		Version: SnapshotVersion,
		Tasks: []SnapshotTask{
			{ID: "x", Title: "Kickoff", StartDate: "2026-03-01", EndDate: "2026-03-02", Progress: 30, Category: "Planning"},
			{Title: "Follow up", StartDate: "2026-03-03", EndDate: "2026-03-03"},
		},
	})
	if err != nil {
		t.Fatalf("ImportSnapshot() error = %v", err)
	}
	if len(imported) != 2 || len(repo.tasks) != 2 {
		t.Fatalf("expected two tasks after import, got %d/%d", len(imported), len(repo.tasks))
	}
	if repo.tasks[0].ID != "x" || repo.tasks[1].ID != "fresh" {
		t.Fatalf("unexpected ids %q %q", repo.tasks[0].ID, repo.tasks[1].ID)
	}
	if repo.tasks[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at stamped on import")
	}
}

func TestImportSnapshotRejectsInvalidRows(t *testing.T) {
	repo := newFakeRepo(mustTask(t, "keep", "Keep", "2026-01-01", "2026-01-02", 0, "", ""))
	svc := NewService(repo, sequenceIDs(), fixedClock(), ServiceConfig{})

	cases := []struct {
		name string
		snap Snapshot
		want error
	}{
		{
			name: "version",
			snap: Snapshot{Version: "other.v9"},
			want: ErrInvalidSnapshot,
		},
		{
			name: "duplicate ids",
			snap: Snapshot{Tasks: []SnapshotTask{
				{ID: "a", Title: "A", StartDate: "2026-01-01", EndDate: "2026-01-01"},
				{ID: "a", Title: "B", StartDate: "2026-01-01", EndDate: "2026-01-01"},
			}},
			want: ErrInvalidSnapshot,
		},
		{
			name: "date range",
			snap: Snapshot{Tasks: []SnapshotTask{{ID: "a", Title: "A", StartDate: "2026-01-05", EndDate: "2026-01-01"}}},
			want: domain.ErrInvalidDateRange,
		},
		{
			name: "progress",
			snap: Snapshot{Tasks: []SnapshotTask{{ID: "a", Title: "A", StartDate: "2026-01-01", EndDate: "2026-01-01", Progress: 140}}},
			want: domain.ErrInvalidProgress,
		},
	}
	for _, tc := range cases {
		_, err := svc.ImportSnapshot(context.Background(), tc.snap)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if len(repo.tasks) != 1 || repo.tasks[0].ID != "keep" {
		t.Fatalf("expected failed imports to leave list untouched, got %#v", repo.tasks)
	}
}

func TestSnapshotCodecs(t *testing.T) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC),
		Tasks: []SnapshotTask{
			{ID: "a", Title: "Ship", StartDate: "2026-02-21", EndDate: "2026-02-24", Progress: 40, Category: "Dev", Assignee: "Kim"},
		},
	}
	for _, format := range []SnapshotFormat{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := EncodeSnapshot(&buf, snap, format); err != nil {
			t.Fatalf("EncodeSnapshot(%s) error = %v", format, err)
		}
		if !strings.Contains(buf.String(), "start_date") {
			t.Fatalf("expected snake_case keys in %s output:\n%s", format, buf.String())
		}
		got, err := DecodeSnapshot(&buf, format)
		if err != nil {
			t.Fatalf("DecodeSnapshot(%s) error = %v", format, err)
		}
		if len(got.Tasks) != 1 || got.Tasks[0] != snap.Tasks[0] {
			t.Fatalf("%s: unexpected decoded tasks %#v", format, got.Tasks)
		}
	}
}

func TestDecodeSnapshotRejectsUnknownFields(t *testing.T) {
	_, err := DecodeSnapshot(strings.NewReader(`{"version":"gengantt.snapshot.v1","tasks":[],"extra":1}`), FormatJSON)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot for json, got %v", err)
	}
	_, err = DecodeSnapshot(strings.NewReader("version: gengantt.snapshot.v1\nbogus: true\n"), FormatYAML)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot for yaml, got %v", err)
	}
}

func TestSnapshotFormats(t *testing.T) {
	if got := SnapshotFormatForPath("plan.YML"); got != FormatYAML {
		t.Fatalf("expected yaml for .YML, got %q", got)
	}
	if got := SnapshotFormatForPath("plan.json"); got != FormatJSON {
		t.Fatalf("expected json, got %q", got)
	}
	if got, err := ParseSnapshotFormat(""); err != nil || got != FormatJSON {
		t.Fatalf("expected empty format to default to json, got %q %v", got, err)
	}
	if _, err := ParseSnapshotFormat("csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
