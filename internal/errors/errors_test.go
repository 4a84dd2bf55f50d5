package errors

import (
	"fmt"
	"testing"
)

func TestArchiveError_Error(t *testing.T) {
	err := &ArchiveError{
		Code:    ErrStructural,
		Message: "meeting has no sub-entries",
	}

	expected := "STRUCTURAL_ERROR: meeting has no sub-entries"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestArchiveError_ErrorWithLine(t *testing.T) {
	err := NewStructural("missing speaker name").AtLine(12)

	expected := "STRUCTURAL_ERROR: line 12: missing speaker name"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestAtLine_KeepsInnermostLine(t *testing.T) {
	err := NewFormat("line too long", "x").AtLine(3).AtLine(9)

	if err.Details["line"] != 3 {
		t.Errorf("Details[line] = %v, want 3", err.Details["line"])
	}
	if err.Details["text"] != "x" {
		t.Errorf("Details[text] = %v, want %q", err.Details["text"], "x")
	}
}

func TestAtLine_DoesNotMutateOriginal(t *testing.T) {
	orig := NewVocabulary("venue", "Nowhere")
	_ = orig.AtLine(5)

	if _, ok := orig.Details["line"]; ok {
		t.Error("AtLine mutated the original error")
	}
}

func TestNewVocabulary(t *testing.T) {
	err := NewVocabulary("meeting type", "picnic")

	if err.Code != ErrVocabulary {
		t.Errorf("Code = %q, want %q", err.Code, ErrVocabulary)
	}
	if err.Details["field"] != "meeting type" {
		t.Errorf("Details[field] = %v, want %q", err.Details["field"], "meeting type")
	}
	if err.Details["value"] != "picnic" {
		t.Errorf("Details[value] = %v, want %q", err.Details["value"], "picnic")
	}
}

func TestNewCrossReference(t *testing.T) {
	err := NewCrossReference("unknown speaker", "Smith, A.")

	if err.Code != ErrCrossReference {
		t.Errorf("Code = %q, want %q", err.Code, ErrCrossReference)
	}
	if err.Message != "unknown speaker: Smith, A." {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("meetings.xml")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["path"] != "meetings.xml" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "meetings.xml")
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("text-to-xml")
	if err.Code != ErrCancelled {
		t.Errorf("Code = %v, want %v", err.Code, ErrCancelled)
	}
	if err.Message != "text-to-xml cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewFormat("missing expected space", "")

	if !Is(err, ErrFormat) {
		t.Error("Is(err, ErrFormat) = false, want true")
	}
	if Is(err, ErrVocabulary) {
		t.Error("Is(err, ErrVocabulary) = true, want false")
	}

	wrapped := fmt.Errorf("decode ledger: %w", err)
	if !Is(wrapped, ErrFormat) {
		t.Error("Is(wrapped, ErrFormat) = false, want true")
	}

	if Is(fmt.Errorf("plain"), ErrFormat) {
		t.Error("Is(plain error) = true, want false")
	}
}
