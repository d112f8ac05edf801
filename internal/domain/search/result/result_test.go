package result

import (
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
)

func TestNew_SlideKeepsPage(t *testing.T) {
	r := New(chunk.Slide, chunk.NewWithPage("slides3.pdf", 12, "Confusion matrix defined"), 0.87)

	if r.Source() != chunk.Slide {
		t.Errorf("expected slide source, got %q", r.Source())
	}
	page, ok := r.Page()
	if !ok || page != 12 {
		t.Errorf("expected page 12, got %d (set=%v)", page, ok)
	}
	if r.Score() != 0.87 {
		t.Errorf("expected score 0.87, got %f", r.Score())
	}
}

func TestNew_LabDropsPage(t *testing.T) {
	// A lab row that happens to carry a page must not expose it.
	r := New(chunk.Lab, chunk.NewWithPage("lab1.ipynb", 3, "Joins practice"), 0.5)

	if _, ok := r.Page(); ok {
		t.Error("lab results never carry a page")
	}
	if r.File() != "lab1.ipynb" || r.Text() != "Joins practice" {
		t.Errorf("unexpected result fields: %q %q", r.File(), r.Text())
	}
}
