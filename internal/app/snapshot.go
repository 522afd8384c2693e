package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/gengantt/internal/domain"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "gengantt.snapshot.v1"

// SnapshotFormat names a snapshot encoding.
type SnapshotFormat string

// Supported snapshot encodings.
const (
	FormatJSON SnapshotFormat = "json"
	FormatYAML SnapshotFormat = "yaml"
)

// Snapshot is a portable copy of the full task list.
type Snapshot struct {
	Version    string         `json:"version" yaml:"version"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Tasks      []SnapshotTask `json:"tasks" yaml:"tasks"`
}

// SnapshotTask is one task row in a snapshot. Dates use YYYY-MM-DD.
type SnapshotTask struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	StartDate string    `json:"start_date" yaml:"start_date"`
	EndDate   string    `json:"end_date" yaml:"end_date"`
	Progress  int       `json:"progress" yaml:"progress"`
	Category  string    `json:"category" yaml:"category"`
	Assignee  string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// ParseSnapshotFormat normalizes a user-supplied format name.
func ParseSnapshotFormat(raw string) (SnapshotFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// SnapshotFormatForPath infers the encoding from a file extension, defaulting to JSON.
func SnapshotFormatForPath(path string) SnapshotFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// EncodeSnapshot writes snap to w.
func EncodeSnapshot(w io.Writer, snap Snapshot, format SnapshotFormat) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml snapshot: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode json snapshot: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeSnapshot reads one snapshot from r.
func DecodeSnapshot(r io.Reader, format SnapshotFormat) (Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidSnapshot, err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("%w: decode json: %v", ErrInvalidSnapshot, err)
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return snap, nil
}

// ExportSnapshot captures the current task list.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Tasks:      make([]SnapshotTask, 0, len(tasks)),
	}
	for _, task := range tasks {
		snap.Tasks = append(snap.Tasks, snapshotTaskFromDomain(task))
	}
	return snap, nil
}

// ImportSnapshot validates snap and replaces the whole task list with it.
// Rows without an id receive a generated one.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) ([]domain.Task, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	seen := make(map[string]struct{}, len(snap.Tasks))
	for _, row := range snap.Tasks {
		if id := strings.TrimSpace(row.ID); id != "" {
			seen[id] = struct{}{}
		}
	}

	tasks := make([]domain.Task, 0, len(snap.Tasks))
	for i, row := range snap.Tasks {
		if strings.TrimSpace(row.ID) == "" {
			id, err := s.freshSnapshotID(seen)
			if err != nil {
				return nil, err
			}
			row.ID = id
		}
		task, err := row.toDomain(now)
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d]: %w", ErrInvalidSnapshot, i, err)
		}
		tasks = append(tasks, task)
	}

	if err := s.repo.ReplaceTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Validate checks version and id uniqueness. Field-level validation happens on import.
func (s Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}
	ids := make(map[string]struct{}, len(s.Tasks))
	for i, row := range s.Tasks {
		id := strings.TrimSpace(row.ID)
		if id == "" {
			continue
		}
		if _, exists := ids[id]; exists {
			return fmt.Errorf("%w: tasks[%d] duplicate id %q", ErrInvalidSnapshot, i, id)
		}
		ids[id] = struct{}{}
	}
	return nil
}

func (s *Service) freshSnapshotID(seen map[string]struct{}) (string, error) {
	for range maxIDAttempts {
		id := strings.TrimSpace(s.idGen())
		if id == "" {
			return "", domain.ErrInvalidID
		}
		if _, taken := seen[id]; !taken {
			seen[id] = struct{}{}
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func snapshotTaskFromDomain(t domain.Task) SnapshotTask {
	return SnapshotTask{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: t.StartDate.String(),
		EndDate:   t.EndDate.String(),
		Progress:  t.Progress,
		Category:  t.Category,
		Assignee:  t.Assignee,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (t SnapshotTask) toDomain(now time.Time) (domain.Task, error) {
	created := t.CreatedAt
	if created.IsZero() {
		created = now
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Progress:  t.Progress,
		Category:  t.Category,
		Assignee:  t.Assignee,
	}, created)
	if err != nil {
		return domain.Task{}, err
	}
	if !t.UpdatedAt.IsZero() {
		task.UpdatedAt = t.UpdatedAt.UTC()
	}
	return task, nil
}
