// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ExpandPath expands $VAR and ${VAR} references and a leading ~ in a path value
// using environ (KEY=value pairs). Unset variables expand to the empty string.
func ExpandPath(value string, environ []string) (string, error) {
	if value == "" {
		return "", nil
	}

	env := expand.ListEnviron(environ...)
	if rest, ok := strings.CutPrefix(value, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == filepath.Separator) {
		home := env.Get("HOME").String()
		if home == "" {
			home = env.Get("USERPROFILE").String()
		}
		if home == "" {
			return "", fmt.Errorf("cannot expand %q: HOME is not set", value)
		}
		value = home + rest
	}

	if !strings.Contains(value, "$") {
		return filepath.Clean(value), nil
	}

	word, err := syntax.NewParser().Document(strings.NewReader(value))
	if err != nil {
		return "", fmt.Errorf("cannot expand %q: %w", value, err)
	}
	out, err := expand.Document(&expand.Config{Env: env}, word)
	if err != nil {
		return "", fmt.Errorf("cannot expand %q: %w", value, err)
	}
	return filepath.Clean(out), nil
}
