package m3u

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

// Encode writes the playlist header followed by a metadata and URL line per
// entry. Metadata without a group-title gets defaultGroup inserted; entries
// without metadata get a synthesized line.
func Encode(w io.Writer, entries []domain.Entry, defaultGroup string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, domain.ManifestHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\n%s\n", NormalizeMetadata(e, defaultGroup), e.URL); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// NormalizeMetadata returns the #EXTINF line written for e.
func NormalizeMetadata(e domain.Entry, defaultGroup string) string {
	if !e.HasMetadata() {
		return domain.SynthesizeMetadata(defaultGroup, e.DisplayName)
	}
	d := domain.ParseDescriptor(e.Metadata)
	if _, ok := d.Attr(domain.GroupTitleAttr); ok {
		return e.Metadata
	}
	if d.Title == "" {
		d.Title = e.DisplayName
	}
	return d.WithAttr(domain.GroupTitleAttr, defaultGroup).String()
}

// Write encodes entries into path, creating parent directories. The playlist
// is written to a temporary file next to path and renamed into place, so path
// is either fully written or left as it was.
func Write(path string, entries []domain.Entry, defaultGroup string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, entries, defaultGroup); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync playlist: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close playlist: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod playlist: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename playlist: %w", err)
	}
	return nil
}
