package harness

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputPrefix marks artifacts produced by earlier timing runs; entries
// carrying it are never copied into a fresh working directory.
const OutputPrefix = "TimeSCons-"

var skipDirs = map[string]bool{".svn": true, ".git": true}

// CopyConfiguration copies a timing-fixture tree from srcDir into
// dstDir, excluding version-control metadata and prior output
// artifacts. File permissions and modification times are preserved.
func CopyConfiguration(srcDir, dstDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}
		name := d.Name()
		if d.IsDir() && skipDirs[name] {
			return filepath.SkipDir
		}
		if strings.HasPrefix(name, OutputPrefix) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if err := copyFile(path, target, info); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		return nil
	})
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
