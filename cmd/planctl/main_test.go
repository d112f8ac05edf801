package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr bool
	}{
		{"flag feedback", []string{"-feedback", "joins"}, "", "joins", false},
		{"stdin feedback", nil, "confusion matrix\n", "confusion matrix", false},
		{"stdin keeps inner newlines", nil, "line one\nline two\n", "line one\nline two", false},
		{"no feedback", nil, "", "", true},
		{"blank feedback", []string{"-feedback", "   "}, "", "", true},
		{"bad source", []string{"-search", "videos", "-feedback", "x"}, "", "", true},
		{"negative top", []string{"-top-labs", "-1", "-feedback", "x"}, "", "", true},
		{"stray args", []string{"-feedback", "x", "extra"}, "", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			o, err := parseFlags(tc.args, strings.NewReader(tc.stdin), &stderr)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && o.feedback != tc.want {
				t.Errorf("feedback = %q, want %q", o.feedback, tc.want)
			}
		})
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	o, err := parseFlags([]string{"-feedback", "x"}, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.topSlides != 0 || o.topLabs != 0 || o.top != 5 || o.search != "" || o.showContext {
		t.Errorf("unexpected defaults %+v", o)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "planctl ") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRun_UsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "feedback is required") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRun_MissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	code := run(context.Background(), []string{"-config", missing, "-feedback", "x"},
		strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should reach stdout on failure: %q", stdout.String())
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []result.Result{
		result.New(chunk.Slide, chunk.NewWithPage("slides3.pdf", 12, "Confusion\n  matrix defined"), 0.91234),
		result.New(chunk.Lab, chunk.New("lab1.ipynb", "Joins practice"), 0.5),
	})

	want := "1. 0.9123  slides3.pdf p.12\n   Confusion matrix defined\n" +
		"2. 0.5000  lab1.ipynb\n   Joins practice\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, nil)
	if buf.String() != "no results\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\n\tb  c", 10); got != "a b c" {
		t.Errorf("got %q", got)
	}
	if got := oneLine("héllo world", 5); got != "héllo..." {
		t.Errorf("got %q", got)
	}
}
