package definition

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} references.
// Unset variables without a default expand to the empty string.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// Parse decodes and validates a YAML or JSON definitions document.
// path is only used in error messages.
func Parse(path string, data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Error{Path: path, Message: "file is empty"}
	}
	expanded := []byte(ExpandEnvVars(string(data)))

	var doc interface{}
	if err := yaml.Unmarshal(expanded, &doc); err != nil {
		return nil, &Error{Path: path, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	if err := validateDocument(path, doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(expanded, &f); err != nil {
		return nil, &Error{Path: path, Message: fmt.Sprintf("decoding definitions: %v", err)}
	}
	return &f, nil
}

// LoadFile reads and parses a single definitions file.
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied: %s", path)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(path, data)
}

// LoadGlob loads every file matching pattern, which may use ** for
// recursive matching, and merges their entities. A plain path matches
// itself.
func LoadGlob(pattern string) (*File, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no definition files match %q", pattern)
	}
	sort.Strings(matches)

	files := make([]*File, 0, len(matches))
	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			continue
		}
		f, err := LoadFile(match)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		paths = append(paths, match)
	}
	return Merge(paths, files)
}

// Merge combines files into one. Entity keys must be unique across files,
// and files that set a base URL must agree on it.
func Merge(paths []string, files []*File) (*File, error) {
	out := &File{Entities: make(map[string]Entity)}
	origin := make(map[string]string)
	var baseOrigin string

	for i, f := range files {
		path := ""
		if i < len(paths) {
			path = paths[i]
		}
		if f.BaseURL != "" {
			if out.BaseURL != "" && out.BaseURL != f.BaseURL {
				return nil, &Error{Path: path, Field: "baseUrl", Message: fmt.Sprintf("conflicts with %q from %s", out.BaseURL, baseOrigin)}
			}
			out.BaseURL = f.BaseURL
			baseOrigin = path
		}
		for name, e := range f.Entities {
			if prev, dup := origin[name]; dup {
				return nil, &Error{Path: path, Entity: name, Message: "already defined in " + prev}
			}
			origin[name] = path
			out.Entities[name] = e
		}
	}
	return out, nil
}
