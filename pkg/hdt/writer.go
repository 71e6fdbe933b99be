package hdt

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/aleksaelezovic/gohdt/internal/containers"
	"github.com/aleksaelezovic/gohdt/internal/rdfio"
)

// Save serializes the dataset: global control block, header, dictionary,
// triple index, each part checksummed as the format requires.
func (h *HDT) Save(w io.Writer) error {
	global := containers.NewControlInfo(containers.ControlGlobal, containers.FormatHDTv1)
	global.Set("Software", "gohdt")
	if err := global.Save(w); err != nil {
		return err
	}

	body := h.headerBody()
	header := containers.NewControlInfo(containers.ControlHeader, containers.FormatHeaderNTriples)
	header.SetUint("length", uint64(len(body)))
	if err := header.Save(w); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}

	if err := h.Dict.Save(w); err != nil {
		return err
	}
	return h.Index.Save(w)
}

// Write publishes the dataset at path atomically: the bytes go to a
// temporary file in the destination directory which is renamed over the
// destination only after a complete, flushed write. A failed run never
// leaves a partial file at path.
func Write(fs afero.Fs, h *HDT, path string) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".gohdt-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		if removeErr := fs.Remove(tmpName); removeErr != nil {
			slog.Warn("failed to remove temp file", "path", tmpName, "error", removeErr)
		}
	}

	bw := bufio.NewWriter(tmp)
	if err := h.Save(bw); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		if removeErr := fs.Remove(tmpName); removeErr != nil {
			slog.Warn("failed to remove temp file", "path", tmpName, "error", removeErr)
		}
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}

// Convert runs the whole conversion: load and merge the input files, build
// the dataset, publish it at output. The returned HDT is the built dataset.
func Convert(fs afero.Fs, inputs []string, output string, opts Options) (*HDT, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no input files", ErrInput)
	}

	ts, err := rdfio.LoadFiles(fs, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	slog.Debug("loaded input", "files", len(inputs), "triples", len(ts))

	if opts.BaseURI == "" {
		opts.BaseURI = "file://" + filepath.ToSlash(output)
	}
	h, err := Build(ts, opts)
	if err != nil {
		return nil, err
	}

	if err := Write(fs, h, output); err != nil {
		return nil, err
	}
	return h, nil
}
