package hdt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/aleksaelezovic/gohdt/internal/containers"
	"github.com/aleksaelezovic/gohdt/internal/dictionary"
	"github.com/aleksaelezovic/gohdt/internal/triples"
)

// Read parses an HDT file, validating every section checksum. The header
// metadata block is retained verbatim in RawHeader.
func Read(r io.Reader) (*HDT, error) {
	br := bufio.NewReader(r)

	global, err := containers.ReadControlInfo(br)
	if err != nil {
		return nil, err
	}
	if global.Kind != containers.ControlGlobal {
		return nil, fmt.Errorf("%w: expected global control block, got kind %d", containers.ErrFormat, global.Kind)
	}
	if global.Format != containers.FormatHDTv1 {
		return nil, fmt.Errorf("%w: unsupported HDT format %q", containers.ErrFormat, global.Format)
	}

	header, err := containers.ReadControlInfo(br)
	if err != nil {
		return nil, err
	}
	if header.Kind != containers.ControlHeader {
		return nil, fmt.Errorf("%w: expected header control block, got kind %d", containers.ErrFormat, header.Kind)
	}
	length, ok := header.Uint("length")
	if !ok {
		return nil, fmt.Errorf("%w: header length missing", containers.ErrFormat)
	}
	rawHeader := make([]byte, length)
	if _, err := io.ReadFull(br, rawHeader); err != nil {
		return nil, err
	}

	dict, err := dictionary.Read(br)
	if err != nil {
		return nil, err
	}
	index, err := triples.ReadBitmapTriples(br)
	if err != nil {
		return nil, err
	}

	return &HDT{Dict: dict, Index: index, RawHeader: rawHeader}, nil
}

// ReadFile opens and parses an HDT file from the filesystem
func ReadFile(fs afero.Fs, path string) (*HDT, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
