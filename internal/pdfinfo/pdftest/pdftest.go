// Package pdftest writes small but well-formed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Build returns a PDF with the given number of empty pages and a correct
// cross-reference table.
func Build(pages int) []byte {
	body, offsets := objects(pages)
	return append(body, trailer(offsets, len(body))...)
}

// WriteSized stores a valid PDF of exactly size bytes. The gap between the
// objects and the cross-reference table is left sparse.
func WriteSized(t testing.TB, dir, name string, pages int, size int64) string {
	t.Helper()
	body, offsets := objects(pages)
	xref := int(size) - len(trailer(offsets, int(size)))
	tail := trailer(offsets, xref)
	if xref < len(body) {
		t.Fatalf("size %d too small for %d pages", size, pages)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create pdf: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(body); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if _, err := f.WriteAt(tail, int64(xref)); err != nil {
		t.Fatalf("write pdf trailer: %v", err)
	}
	return path
}

func objects(pages int) ([]byte, []int) {
	bodies := []string{"<< /Type /Catalog /Pages 2 0 R >>"}
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	bodies = append(bodies, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		bodies = append(bodies, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(bodies))
	for i, body := range bodies {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	return buf.Bytes(), offsets
}

// trailer renders the cross-reference table, trailer and startxref for a
// table placed at offset xref.
func trailer(offsets []int, xref int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// Write stores a PDF with the given page count under dir and returns its
// path.
func Write(t testing.TB, dir, name string, pages int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(pages), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}
