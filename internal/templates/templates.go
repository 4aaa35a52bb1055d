// Package templates loads and renders the stub files that generators turn into PHP sources.
package templates

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/example/apigen/internal/apperrors"
)

//go:embed stubs/*.stub
var defaultStubs embed.FS

const stubExtension = ".stub"

// Replacements maps placeholder keys (without braces) to their values.
type Replacements map[string]string

// Loader reads stubs from a file system and renders them.
type Loader struct {
	root fs.FS
}

// NewLoader creates a Loader over root. Stub names are resolved relative to it.
func NewLoader(root fs.FS) *Loader {
	return &Loader{root: root}
}

// DefaultLoader returns a Loader over the stubs compiled into the binary.
func DefaultLoader() *Loader {
	sub, err := fs.Sub(defaultStubs, "stubs")
	if err != nil {
		panic(err)
	}
	return NewLoader(sub)
}

// WithOverrides returns a Loader that prefers stubs found in overrides and falls back to l.
func (l *Loader) WithOverrides(overrides fs.FS) *Loader {
	return NewLoader(layeredFS{primary: overrides, fallback: l.root})
}

// Load reads the named stub and renders it with the given replacements.
// The ".stub" extension is optional in name.
func (l *Loader) Load(name string, replacements Replacements) (string, error) {
	content, err := l.Raw(name)
	if err != nil {
		return "", err
	}
	return Render(content, replacements), nil
}

// Raw reads the named stub without substitution.
func (l *Loader) Raw(name string) (string, error) {
	p := stubPath(name)
	content, err := fs.ReadFile(l.root, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NotFound("stub file " + p)
		}
		return "", err
	}
	return string(content), nil
}

// Exists reports whether the named stub can be loaded.
func (l *Loader) Exists(name string) bool {
	_, err := fs.Stat(l.root, stubPath(name))
	return err == nil
}

func stubPath(name string) string {
	return path.Clean(strings.TrimSuffix(name, stubExtension) + stubExtension)
}

// Render replaces every {key} whose key is present in replacements. Placeholders without
// a replacement are kept verbatim and substituted values are never scanned again, so the
// result does not depend on map iteration order.
func Render(content string, replacements Replacements) string {
	var b strings.Builder
	b.Grow(len(content))

	for i := 0; i < len(content); {
		if content[i] == '{' {
			end := i + 1
			for end < len(content) && isKeyChar(content[end]) {
				end++
			}
			if end > i+1 && end < len(content) && content[end] == '}' {
				if value, ok := replacements[content[i+1:end]]; ok {
					b.WriteString(value)
					i = end + 1
					continue
				}
			}
		}
		b.WriteByte(content[i])
		i++
	}

	return b.String()
}

func isKeyChar(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// layeredFS serves files from primary when present, otherwise from fallback.
type layeredFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (l layeredFS) Open(name string) (fs.File, error) {
	f, err := l.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return l.fallback.Open(name)
}
