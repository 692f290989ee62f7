package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractBytes_PlainText(t *testing.T) {
	e := NewExtractor()
	doc, err := e.ExtractBytes([]byte("Forriz Hotel offers free breakfast."), ".txt", "info.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Forriz Hotel offers free breakfast." {
		t.Errorf("text: got %q", doc.Text)
	}
	if doc.Source != "info.txt" {
		t.Errorf("source: got %q", doc.Source)
	}
}

func TestExtractBytes_InvalidUTF8(t *testing.T) {
	e := NewExtractor()
	doc, err := e.ExtractBytes([]byte{'h', 'i', 0xff, '!'}, ".txt", "bad.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "hi") {
		t.Errorf("expected valid prefix preserved, got %q", doc.Text)
	}
}

func TestExtractBytes_UnsupportedType(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes([]byte("x"), ".exe", "x.exe")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractBytes_EmptyContent(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("   \n  "), ".txt", "empty.txt"); err == nil {
		t.Fatal("expected error for blank document")
	}
}

func TestExtractBytes_Excel(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Tipe Kamar")
	_ = f.SetCellValue("Sheet1", "B1", "Tersedia")
	_ = f.SetCellValue("Sheet1", "A2", "Deluxe")
	_ = f.SetCellValue("Sheet1", "B2", "4")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	doc, err := e.ExtractBytes(buf.Bytes(), ".xlsx", "kamar.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "Deluxe\t4") {
		t.Errorf("expected tab-joined row, got %q", doc.Text)
	}
}

func TestExtractBytes_ExcelMultiSheet(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Deluxe")
	_ = f.SetCellValue("Sheet1", "A4", "Suite")
	if _, err := f.NewSheet("Fasilitas"); err != nil {
		t.Fatal(err)
	}
	_ = f.SetCellValue("Fasilitas", "A1", "Kolam renang")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	doc, err := e.ExtractBytes(buf.Bytes(), ".xlsx", "hotel.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "Fasilitas\nKolam renang") {
		t.Errorf("expected sheet name as section header, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "Deluxe\n\n") {
		t.Errorf("blank rows should be dropped, got %q", doc.Text)
	}
}

func TestExtractBytes_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(`<w:document><w:body><w:p w:rsidR="0"><w:r><w:t>Kolam renang</w:t></w:r><w:r><w:t xml:space="preserve">buka jam 6</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	doc, err := e.ExtractBytes(buf.Bytes(), ".docx", "fasilitas.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Kolam renang buka jam 6" {
		t.Errorf("got %q", doc.Text)
	}
}

func TestExtract_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("check-in mulai jam 14.00"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	doc, err := e.Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Source != "note.md" {
		t.Errorf("source should be base filename, got %q", doc.Source)
	}
}
