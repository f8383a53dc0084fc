package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// captureStorage records the last ReplaceAll payload
type captureStorage struct {
	replaced []*models.Document
}

func (s *captureStorage) SaveDocument(ctx context.Context, doc *models.Document) error { return nil }

func (s *captureStorage) ReplaceAll(ctx context.Context, docs []*models.Document) error {
	s.replaced = docs
	return nil
}

func (s *captureStorage) DeleteDocument(ctx context.Context, id string) error { return nil }
func (s *captureStorage) ClearAll(ctx context.Context) error                  { return nil }

func (s *captureStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, interfaces.ErrNotFound
}

func (s *captureStorage) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	return nil, interfaces.ErrNotFound
}

func (s *captureStorage) Exists(ctx context.Context, kind models.DocumentKind, locator string) (bool, error) {
	return false, nil
}

func (s *captureStorage) SearchDocuments(ctx context.Context, ftsQuery string, limit int) ([]*interfaces.RankedDocument, error) {
	return nil, nil
}

func (s *captureStorage) CountDocuments(ctx context.Context) (int, error) { return 0, nil }
func (s *captureStorage) CountByKind(ctx context.Context, kind models.DocumentKind) (int, error) {
	return 0, nil
}
func (s *captureStorage) GetStats(ctx context.Context) (*models.CorpusStats, error) {
	return &models.CorpusStats{}, nil
}

func newTestService(storage interfaces.CorpusStorage) *Service {
	return NewService(storage, &common.CorpusConfig{}, arbor.NewLogger())
}

func input(kind, locator, text string) *models.DocumentInput {
	return &models.DocumentInput{
		Kind:    models.DocumentKind(kind),
		Locator: locator,
		Text:    text,
	}
}

func TestIngest_AssignsIDsAndTimestamps(t *testing.T) {
	storage := &captureStorage{}
	service := newTestService(storage)

	count, err := service.Ingest(context.Background(), []*models.DocumentInput{
		input("statute_section", "68", "Surplus income standard."),
		input("directive", "11R", "Calculation directive."),
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if len(storage.replaced) != 2 {
		t.Fatalf("ReplaceAll received %d docs", len(storage.replaced))
	}

	for _, d := range storage.replaced {
		if d.ID == "" || d.ID[:4] != "doc_" {
			t.Errorf("document id = %q, want doc_ prefix", d.ID)
		}
		if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
			t.Errorf("document %s missing timestamps", d.Locator)
		}
	}
}

func TestIngest_RejectsInvalidInput(t *testing.T) {
	service := newTestService(&captureStorage{})

	tests := []struct {
		name   string
		inputs []*models.DocumentInput
	}{
		{"Empty batch", nil},
		{"Unknown kind", []*models.DocumentInput{input("regulation", "5", "text")}},
		{"Missing locator", []*models.DocumentInput{input("directive", "", "text")}},
		{"Missing text", []*models.DocumentInput{input("directive", "11R", "")}},
		{"Duplicate locator within kind", []*models.DocumentInput{
			input("directive", "11R", "first"),
			input("directive", "11R", "second"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Ingest(context.Background(), tt.inputs); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestIngest_AllowsSameLocatorAcrossKinds(t *testing.T) {
	service := newTestService(&captureStorage{})

	_, err := service.Ingest(context.Background(), []*models.DocumentInput{
		input("statute_section", "5", "section text"),
		input("directive", "5", "directive text"),
	})
	if err != nil {
		t.Errorf("Ingest failed: %v", err)
	}
}

func TestIngest_StripsMarkdown(t *testing.T) {
	storage := &captureStorage{}
	service := newTestService(storage)

	_, err := service.Ingest(context.Background(), []*models.DocumentInput{
		input("statute_section", "68", "## Surplus income\n\nThe *standard* applies to **every** bankrupt."),
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	text := storage.replaced[0].Text
	for _, marker := range []string{"##", "*"} {
		if strings.Contains(text, marker) {
			t.Errorf("markdown marker %q survived: %q", marker, text)
		}
	}
	if !strings.Contains(text, "Surplus income") || !strings.Contains(text, "every") {
		t.Errorf("content lost during stripping: %q", text)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	manifest := `documents:
  - kind: statute_section
    locator: "168.1"
    title: Automatic discharge
    text: |
      Discharge is subject to section 68.
  - kind: directive
    locator: 11R
    title: Surplus Income
    text: Calculation of surplus income.
`
	if err := os.WriteFile(filepath.Join(dir, "corpus.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-manifest files are ignored
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	storage := &captureStorage{}
	service := newTestService(storage)

	count, err := service.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	byLocator := make(map[string]*models.Document)
	for _, d := range storage.replaced {
		byLocator[d.Locator] = d
	}
	if d := byLocator["168.1"]; d == nil || d.Kind != models.KindStatuteSection {
		t.Errorf("missing statute 168.1: %+v", d)
	}
	if d := byLocator["11R"]; d == nil || d.Kind != models.KindDirective {
		t.Errorf("missing directive 11R: %+v", d)
	}
}

func TestLoadDirectory_EmptyDir(t *testing.T) {
	service := newTestService(&captureStorage{})

	if _, err := service.LoadDirectory(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for directory without manifests")
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Plain text untouched",
			in:   "Discharge is subject to section 68.",
			want: "Discharge is subject to section 68.",
		},
		{
			name: "Heading and emphasis",
			in:   "# Title\n\nSome *emphasized* text.",
			want: "Title\n\nSome emphasized text.",
		},
		{
			name: "Link text kept",
			in:   "See [section 68](https://laws.example/68) for detail.",
			want: "See section 68 for detail.",
		},
		{
			name: "Empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.in); got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

