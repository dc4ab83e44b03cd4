package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Entry is one file to place in the archive.
type Entry struct {
	Filename string
	Data     []byte
}

// Archive packs entries into an in-memory zip. Duplicate filenames get a
// numeric suffix before the extension so no entry shadows another.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]int, len(entries))
	for _, entry := range entries {
		name := entry.Filename
		if name == "" {
			name = "file"
		}
		n := seen[name]
		seen[name] = n + 1
		if n > 0 {
			name = dedupeName(name, n)
		}

		w, err := zw.Create(name)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}

func dedupeName(name string, n int) string {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		return fmt.Sprintf("%s-%d%s", name[:dot], n, name[dot:])
	}
	return fmt.Sprintf("%s-%d", name, n)
}
