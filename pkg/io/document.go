package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
)

// ReadDocument decodes and validates a document in format f from r.
// ReadDocument does not close r.
func ReadDocument(r io.Reader, f Format) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data, err = ToJSON(data, f)
	if err != nil {
		return nil, err
	}
	return document.Decode(data)
}

// WriteDocument encodes doc in format f and writes it to w.
func WriteDocument(w io.Writer, doc *document.Document, f Format) error {
	data, err := encode(doc.Record(), f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ImportDocument reads a document file. The format follows the extension.
func ImportDocument(path string) (*document.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := ReadDocument(file, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ExportDocument writes doc to path. The format follows the extension.
func ExportDocument(doc *document.Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDocument(file, doc, DetectFormat(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteBlocks writes a block list in format f. Spans are written in
// normalized form.
func WriteBlocks(w io.Writer, blocks []album.Block, f Format) error {
	if f != FormatYAML {
		return album.EncodeBlocks(w, blocks)
	}
	data, err := encode(album.Records(blocks), f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadBlocksFile reads a block list file and returns it as JSON, ready for
// document.ImportBlocks.
func ReadBlocksFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ToJSON(data, DetectFormat(path))
}
