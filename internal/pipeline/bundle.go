package pipeline

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/dgallion1/docx2tex/internal/convert"
	"github.com/dgallion1/docx2tex/internal/docx"
)

// Bundle writes a zip archive holding <stem>.tex and the package's media
// under media/, the layout \graphicspath in the preamble expects.
func Bundle(w io.Writer, pkg *docx.Package, stem string, log *slog.Logger, opts convert.Options) (convert.Stats, error) {
	zw := zip.NewWriter(w)

	tex, err := zw.Create(stem + ".tex")
	if err != nil {
		return convert.Stats{}, fmt.Errorf("create tex entry: %w", err)
	}
	stats, err := convert.Document(tex, pkg, log, opts)
	if err != nil {
		return stats, err
	}

	err = pkg.EachMedia(func(name string, r io.Reader) error {
		entry, err := zw.Create(path.Join(convert.MediaDir, name))
		if err != nil {
			return fmt.Errorf("create media entry: %w", err)
		}
		if _, err := io.Copy(entry, r); err != nil {
			return fmt.Errorf("copy media %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("close bundle: %w", err)
	}
	return stats, nil
}
