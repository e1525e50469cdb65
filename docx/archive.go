// Package docx reads and rewrites the endnote storage of an OOXML word
// processing container.
//
// The container is a zip archive of XML parts. Only the text runs of
// targeted endnotes are ever modified; every other byte of every part
// (formatting runs, numbering, namespaces, unrelated notes) passes through
// untouched.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// EndnotesPath is the fixed location of the endnote storage part.
const EndnotesPath = "word/endnotes.xml"

type archiveFile struct {
	name string
	data []byte
}

// Archive is an in-memory container. Part order is preserved from the
// source archive so a repack stays structurally equivalent.
type Archive struct {
	files []archiveFile
	index map[string]int
}

// ReadArchive unpacks container bytes into memory.
func ReadArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	ar := &Archive{index: make(map[string]int, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		ar.index[f.Name] = len(ar.files)
		ar.files = append(ar.files, archiveFile{name: f.Name, data: content})
	}
	return ar, nil
}

// Part returns the content of the named part.
func (a *Archive) Part(name string) ([]byte, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.files[i].data, true
}

// SetPart replaces the content of an existing part or appends a new one.
func (a *Archive) SetPart(name string, data []byte) {
	if i, ok := a.index[name]; ok {
		a.files[i].data = data
		return
	}
	a.index[name] = len(a.files)
	a.files = append(a.files, archiveFile{name: name, data: data})
}

// Bytes repacks the archive, preserving part order.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range a.files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close container: %w", err)
	}
	return buf.Bytes(), nil
}
