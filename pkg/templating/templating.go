// Package templating resolves {name} placeholders in configuration strings
// against a build environment.
//
// The syntax is deliberately small: {name} is replaced by the value of
// name, {{ and }} produce literal braces, and anything else involving a
// brace is an error. A placeholder whose name is not set is an error too;
// callers propagate it and the build stops at the step that triggered it.
//
// Hook commands are shell text and use FormatCommand instead, which only
// replaces placeholders naming a set variable and leaves every other brace
// alone.
package templating

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pybuild/pkg/errors"
)

// Lookuper is the read side of a build environment.
type Lookuper interface {
	Lookup(key string) (string, bool)
}

// Format substitutes every {name} placeholder in tmpl.
func Format(tmpl string, env Lookuper) (string, error) {
	if !strings.ContainsAny(tmpl, "{}") {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", errors.Newf(errors.ErrTemplate, "unterminated placeholder in %q", tmpl).
					WithDetail("offset", i)
			}
			name := tmpl[i+1 : i+1+end]
			if name == "" {
				return "", errors.Newf(errors.ErrTemplate, "empty placeholder in %q", tmpl).
					WithDetail("offset", i)
			}
			if strings.ContainsRune(name, '{') {
				return "", errors.Newf(errors.ErrTemplate, "unexpected '{' in placeholder of %q", tmpl).
					WithDetail("offset", i)
			}
			value, ok := env.Lookup(name)
			if !ok {
				return "", errors.Newf(errors.ErrTemplate, "undefined variable %q in %q", name, tmpl).
					WithDetail("key", name)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errors.Newf(errors.ErrTemplate, "single '}' in %q", tmpl).
				WithDetail("offset", i)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

// FormatCommand substitutes {name} placeholders in shell text. Only a
// brace pair around a variable name that is set is replaced. Shell
// parameter expansion such as ${HOME}, find's {} and awk programs are left
// as written, and there is no escaping.
func FormatCommand(tmpl string, env Lookuper) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '$' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				b.WriteString(tmpl[i:])
				return b.String()
			}
			b.WriteString(tmpl[i : i+end+1])
			i += end
		case c == '{':
			if end := strings.IndexByte(tmpl[i+1:], '}'); end >= 0 {
				name := tmpl[i+1 : i+1+end]
				if isName(name) {
					if value, ok := env.Lookup(name); ok {
						b.WriteString(value)
						i += end + 1
						continue
					}
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// FormatAll formats every item of tmpls, stopping at the first failure.
func FormatAll(tmpls []string, env Lookuper) ([]string, error) {
	if len(tmpls) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tmpls))
	for _, t := range tmpls {
		s, err := Format(t, env)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ResolvePath formats tmpl and turns the result into an absolute, OS-native
// path. Symlinks are followed when the path exists.
func ResolvePath(tmpl string, env Lookuper) (string, error) {
	s, err := Format(tmpl, env)
	if err != nil {
		return "", err
	}
	return Abs(s)
}

// Abs returns the absolute, OS-native form of path, following symlinks
// when the path exists.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve path %q", path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// PosixAbs is Abs with forward slashes, the form handed to external tools.
func PosixAbs(path string) (string, error) {
	abs, err := Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}
