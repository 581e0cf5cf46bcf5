package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HashDocuments fingerprints the PDF set under root from filename, mtime,
// and size, so rebuild detection never has to read document contents. The
// hash is stable across runs for an unchanged folder.
func HashDocuments(root string) string {
	var paths []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)

	h := sha256.New()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		h.Write([]byte(filepath.Base(path)))
		fmt.Fprintf(h, "%d%d", info.ModTime().UnixNano(), info.Size())
	}
	return hex.EncodeToString(h.Sum(nil))
}
