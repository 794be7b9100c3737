package resume

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestExtractLabeledFields(t *testing.T) {
	path := writeResume(t, `Name: Jane Doe
Email: jane.doe@example.com
Phone: +7 999 123-45-67

Experience
2015 - 2019  Backend Engineer at Example Corp
`)

	info, err := Extract(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", info.Name)
	}
	if info.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email: %q", info.Email)
	}
	if info.Phone != "+7 999 123-45-67" {
		t.Fatalf("unexpected phone: %q", info.Phone)
	}
}

func TestExtractHeaderName(t *testing.T) {
	path := writeResume(t, `Jane Doe
Senior Full-Stack Engineer
jane@example.com
`)

	info, err := Extract(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", info.Name)
	}
	if info.Email != "jane@example.com" {
		t.Fatalf("unexpected email: %q", info.Email)
	}
}

func TestExtractIgnoresYearRanges(t *testing.T) {
	path := writeResume(t, `Jane Doe
2015 - 2019  Backend Engineer
2019 - 2024  Staff Engineer
`)

	info, err := Extract(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Phone != "" {
		t.Fatalf("year range mistaken for a phone: %q", info.Phone)
	}
}

func TestExtractMissingFieldsStayEmpty(t *testing.T) {
	path := writeResume(t, "Just some unstructured text about nothing in particular at all.\n")

	info, err := Extract(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Name != "" || info.Email != "" || info.Phone != "" {
		t.Fatalf("expected empty info, got %+v", info)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(zap.NewNop(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error")
	}
}
