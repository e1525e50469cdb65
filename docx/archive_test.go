package docx

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildContainer(t *testing.T, parts [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(p[1]))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestArchive_RoundTrip(t *testing.T) {
	parts := [][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"word/document.xml", "<doc/>"},
		{EndnotesPath, "<notes/>"},
		{"word/styles.xml", "<styles/>"},
	}
	ar, err := ReadArchive(buildContainer(t, parts))
	if err != nil {
		t.Fatal(err)
	}

	data, ok := ar.Part(EndnotesPath)
	if !ok || string(data) != "<notes/>" {
		t.Fatalf("Part(%s) = %q, %v", EndnotesPath, data, ok)
	}

	ar.SetPart(EndnotesPath, []byte("<notes2/>"))

	out, err := ar.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != len(parts) {
		t.Fatalf("expected %d parts, got %d", len(parts), len(zr.File))
	}
	// Part order preserved.
	for i, p := range parts {
		if zr.File[i].Name != p[0] {
			t.Errorf("part %d = %q, want %q", i, zr.File[i].Name, p[0])
		}
	}
}

func TestArchive_MissingPart(t *testing.T) {
	ar, err := ReadArchive(buildContainer(t, [][2]string{{"word/document.xml", "<doc/>"}}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ar.Part(EndnotesPath); ok {
		t.Error("expected missing part")
	}
}

func TestReadArchive_Malformed(t *testing.T) {
	if _, err := ReadArchive([]byte("this is not a zip archive")); err == nil {
		t.Error("expected error for malformed container")
	}
}

func TestArchive_SetNewPart(t *testing.T) {
	ar, err := ReadArchive(buildContainer(t, [][2]string{{"a.xml", "<a/>"}}))
	if err != nil {
		t.Fatal(err)
	}
	ar.SetPart("b.xml", []byte("<b/>"))
	if data, ok := ar.Part("b.xml"); !ok || string(data) != "<b/>" {
		t.Errorf("Part(b.xml) = %q, %v", data, ok)
	}
}
