// Package fstore reads and writes the file-based intermediate store that
// connects pipeline stages. Files are keyed by
// {humId}-v{version}[-{lang}] with a stage-specific extension.
package fstore

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// Key builds the file key of one (entry, revision, language) unit.
func Key(humID string, version int, lang string) string {
	res := humID + "-v" + strconv.Itoa(version)
	if lang != "" {
		res += "-" + lang
	}
	return res
}

var keyRe = regexp.MustCompile(`^(hum\d{4})-v(\d+)(?:-(ja|en))?$`)

// ParseKey splits a file key back into its parts.
func ParseKey(key string) (humID string, version int, lang string, ok bool) {
	m := keyRe.FindStringSubmatch(key)
	if m == nil {
		return "", 0, "", false
	}
	v, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", false
	}
	return m[1], v, m[3], true
}

// Read decodes one JSON file into v.
func Read(path string, v any) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	enc := gnfmt.GNjson{}
	return enc.Decode(bs, v)
}

// Write encodes v into one pretty-printed JSON file, creating the
// directory when needed.
func Write(path string, v any) error {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		return err
	}
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

// List returns the sorted base names (extension stripped) of all files
// with the given extension in a directory. A missing directory is not an
// error; it returns an empty list.
func List(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		res = append(res, name[:len(name)-len(ext)])
	}
	sort.Strings(res)
	return res, nil
}

// Exists reports whether a file exists.
func Exists(path string) bool {
	ok, _ := gnsys.FileExists(path)
	return ok
}
