package internal

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"

	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

// Token returns the placeholder text that key is substituted for.
func Token(key string) string {
	return "{" + key + "}"
}

// Replacer substitutes every {KEY} token in a single pass.  Keys are matched
// literally and substituted values are never scanned again.
func (env Environment) Replacer() *strings.Replacer {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, Token(k), env[k])
	}
	return strings.NewReplacer(pairs...)
}

// Inject rewrites every file of bfs except the root manifest, replacing
// placeholder tokens with their values.  Files that are not text are left
// untouched.  It returns the paths that were rewritten.
func Inject(bfs billy.Filesystem, env Environment) ([]string, error) {
	logger := util.GetLogger("inject")
	replacer := env.Replacer()
	manifest := bfs.Join("/", ManifestFile)
	rewritten := []string{}

	err := walk(bfs, "/", func(path string, info fs.FileInfo) error {
		if path == manifest {
			return nil
		}

		data, err := readFile(bfs, path)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		if !isText(data) {
			logger.Debug().Str("path", path).Msg("Skipping non-text file")
			return nil
		}

		transformed := replacer.Replace(string(data))
		if transformed == string(data) {
			return nil
		}

		if err := writeFile(bfs, path, info.Mode(), []byte(transformed)); err != nil {
			return fmt.Errorf("failed to substitute variables in %s: %w", path, err)
		}
		rewritten = append(rewritten, path)
		return nil
	})

	return rewritten, err
}

func walk(bfs billy.Filesystem, dir string, fn func(path string, info fs.FileInfo) error) error {
	infos, err := bfs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, info := range infos {
		path := bfs.Join(dir, info.Name())
		if info.IsDir() {
			if err := walk(bfs, path, fn); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := fn(path, info); err != nil {
			return err
		}
	}
	return nil
}

func isText(data []byte) bool {
	for mtype := mimetype.Detect(data); mtype != nil; mtype = mtype.Parent() {
		if mtype.Is("text/plain") {
			return true
		}
	}
	return false
}

func readFile(bfs billy.Filesystem, name string) ([]byte, error) {
	file, err := bfs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s", name)
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s", name)
	}
	return buf, nil
}

func writeFile(bfs billy.Filesystem, name string, mode fs.FileMode, data []byte) error {
	file, err := bfs.OpenFile(name, os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
