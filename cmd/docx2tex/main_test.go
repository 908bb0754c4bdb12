package main

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` +
	`<w:p><w:hyperlink r:id="rId1"><w:r><w:t>docs</w:t></w:r></w:hyperlink></w:p>` +
	`<w:p><w:hyperlink r:id="rId7"><w:r><w:t>dangling</w:t></w:r></w:hyperlink></w:p>` +
	`</w:body></w:document>`

const testRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId2" Target="media/image1.png"/>` +
	`<Relationship Id="rId1" Target="https://example.com/docs" TargetMode="External"/>` +
	`</Relationships>`

func writeDocx(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            testDocument,
		"word/_rels/document.xml.rels": testRels,
		"word/media/image1.png":        "png-bytes",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		io.WriteString(w, body)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	path := filepath.Join(t.TempDir(), "guide.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	var stdout bytes.Buffer
	cmd := &ConvertCmd{Path: writeDocx(t), Out: out, ImageWidth: `\textwidth`, stdout: &stdout}
	if err := cmd.Run(discardLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tex, err := os.ReadFile(filepath.Join(out, "guide.tex"))
	if err != nil {
		t.Fatalf("expected tex file: %v", err)
	}
	for _, want := range []string{`\begin{document}`, `\href{https://example.com/docs}{docs}`, "dangling\n\n", `\end{document}`} {
		if !strings.Contains(string(tex), want) {
			t.Errorf("expected tex to contain %q, got:\n%s", want, tex)
		}
	}
	media, err := os.ReadFile(filepath.Join(out, "media", "image1.png"))
	if err != nil || string(media) != "png-bytes" {
		t.Errorf("expected media copied, got %q (%v)", media, err)
	}
	summary := stdout.String()
	if !strings.Contains(summary, "2 paragraphs") || !strings.Contains(summary, "1 media files") {
		t.Errorf("unexpected summary %q", summary)
	}
	if !strings.Contains(summary, "1 unresolved relationships") {
		t.Errorf("expected unresolved warning, got %q", summary)
	}
}

func TestConvertCmd_RejectsBadImageWidth(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	cmd := &ConvertCmd{Path: writeDocx(t), Out: out, ImageWidth: "}", stdout: io.Discard}
	err := cmd.Run(discardLogger())
	if err == nil || !strings.Contains(err.Error(), "image-width") {
		t.Fatalf("expected image width error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "guide.tex")); !os.IsNotExist(err) {
		t.Errorf("expected no output written, got %v", err)
	}
}

func TestConvertCmd_BodyOnlyNoMedia(t *testing.T) {
	out := t.TempDir()
	cmd := &ConvertCmd{Path: writeDocx(t), Out: out, BodyOnly: true, NoMedia: true, stdout: io.Discard}
	if err := cmd.Run(discardLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tex, err := os.ReadFile(filepath.Join(out, "guide.tex"))
	if err != nil {
		t.Fatalf("expected tex file: %v", err)
	}
	if strings.Contains(string(tex), `\documentclass`) {
		t.Errorf("expected no preamble, got:\n%s", tex)
	}
	if _, err := os.Stat(filepath.Join(out, "media")); !os.IsNotExist(err) {
		t.Errorf("expected no media dir, got %v", err)
	}
}

func TestConvertCmd_NotDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	os.WriteFile(path, []byte("not a zip"), 0o644)
	cmd := &ConvertCmd{Path: path, Out: t.TempDir(), stdout: io.Discard}
	if err := cmd.Run(discardLogger()); err == nil {
		t.Error("expected error for invalid package")
	}
}

func TestRelsCmd(t *testing.T) {
	var stdout bytes.Buffer
	cmd := &RelsCmd{Path: writeDocx(t), stdout: &stdout}
	if err := cmd.Run(discardLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "rId1\thttps://example.com/docs\nrId2\tmedia/image1.png\n"
	if stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
}
