package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtract_PlainTextAndMarkdown(t *testing.T) {
	for _, contentType := range []string{TypeText, TypeMarkdown} {
		got, err := Extract([]byte("# 机器学习\n机器学习属于人工智能。"), contentType)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", contentType, err)
		}
		if !strings.Contains(got, "机器学习") {
			t.Fatalf("unexpected text: %q", got)
		}
	}
}

func TestExtract_Docx(t *testing.T) {
	docx := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>机器学习属于人工智能。</w:t></w:r></w:p>
    <w:p><w:r><w:t>深度学习是重要方法。</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := Extract(docx, TypeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "机器学习属于人工智能。") || !strings.Contains(got, "深度学习是重要方法。") {
		t.Fatalf("unexpected text: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("paragraphs should be separated by newlines: %q", got)
	}
}

func TestExtract_DocxSkipsTrackedDeletions(t *testing.T) {
	docx := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>保留的内容。</w:t></w:r></w:p>
    <w:p><w:del><w:r><w:t>删除的内容。</w:t></w:r></w:del></w:p>
  </w:body>
</w:document>`)

	got, err := Extract(docx, TypeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "删除的内容") {
		t.Fatalf("tracked deletion should be skipped: %q", got)
	}
	if !strings.Contains(got, "保留的内容") {
		t.Fatalf("body text missing: %q", got)
	}
}

func TestExtract_EmptyDocumentFails(t *testing.T) {
	if _, err := Extract([]byte("   \n "), TypeText); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	if _, err := Extract([]byte("data"), "image/png"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTypeFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"notes.pdf", TypePDF},
		{"Notes.DOCX", TypeDOCX},
		{"old.doc", TypeDOC},
		{"plain.txt", TypeText},
		{"readme.md", TypeMarkdown},
		{"image.png", ""},
	}
	for _, tt := range tests {
		if got := TypeFromFilename(tt.filename); got != tt.want {
			t.Fatalf("TypeFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
