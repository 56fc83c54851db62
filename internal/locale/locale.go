// SPDX-License-Identifier: MPL-2.0

// Package locale picks the locale resource files an application needs for the
// active user language.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/pakextract/internal/extract"

	"golang.org/x/text/language"
)

const (
	// Fallback is extracted when no available locale matches the active language.
	Fallback = "en-US"

	// PakExt is the file extension of a locale resource file.
	PakExt = ".pak"
)

// ErrInvalidLocale is the sentinel error wrapped by InvalidLocaleError.
var ErrInvalidLocale = errors.New("invalid locale tag")

type (
	// InvalidLocaleError is returned for a locale tag that is not well-formed BCP 47.
	InvalidLocaleError struct {
		Value string
		Err   error
	}

	// Env looks up an environment variable.
	Env func(key string) string
)

// Error implements the error interface.
func (e *InvalidLocaleError) Error() string {
	return fmt.Sprintf("invalid locale tag %q: %v", e.Value, e.Err)
}

// Unwrap returns ErrInvalidLocale for errors.Is() compatibility.
func (e *InvalidLocaleError) Unwrap() error { return ErrInvalidLocale }

// legacyCodes maps retired ISO 639 codes to the codes used in resource names.
var legacyCodes = map[string]string{
	"iw": "he",
	"ji": "yi",
	"in": "id",
	"tl": "fil",
}

// NormalizeLanguage lowercases a base language code and replaces retired codes.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if repl, ok := legacyCodes[lang]; ok {
		return repl
	}
	return lang
}

// Language returns the normalized base language of tag, e.g. "pt" for "pt-BR".
func Language(tag language.Tag) string {
	base, _ := tag.Base()
	return NormalizeLanguage(base.String())
}

// Parse parses a BCP 47 tag or a POSIX locale such as "pt_BR.UTF-8".
func Parse(value string) (language.Tag, error) {
	s := strings.TrimSpace(value)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")

	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, &InvalidLocaleError{Value: value, Err: err}
	}
	return tag, nil
}

// Detect returns the active language from the POSIX locale variables, in the order
// LC_ALL, LC_MESSAGES, LANG. The C and POSIX locales and unparsable values are
// skipped. When nothing usable is set it returns the fallback locale.
func Detect(getenv Env) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" || v == "C" || v == "POSIX" || strings.HasPrefix(v, "C.") {
			continue
		}
		if tag, err := Parse(v); err == nil {
			return tag
		}
	}
	return language.MustParse(Fallback)
}

// PakFiles returns the resource files to extract for lang: every available locale
// that starts with the language code, in the order given. When none match and
// available is not empty it returns the fallback locale alone. An empty fallback
// means Fallback.
func PakFiles(available []string, lang, fallback string) []extract.AssetName {
	lang = NormalizeLanguage(lang)
	if fallback == "" {
		fallback = Fallback
	}

	var out []extract.AssetName
	if lang != "" {
		for _, loc := range available {
			if strings.HasPrefix(loc, lang) {
				out = append(out, extract.AssetName(loc+PakExt))
			}
		}
	}
	if len(out) == 0 && len(available) > 0 {
		out = append(out, extract.AssetName(fallback+PakExt))
	}
	return out
}

// Validate checks every tag in available and that the fallback locale is among
// them. A list that lacks the fallback cannot satisfy a non-matching language.
func Validate(available []string, fallback string) error {
	if fallback == "" {
		fallback = Fallback
	}
	var errs []error
	hasFallback := false
	for _, loc := range available {
		if _, err := language.Parse(loc); err != nil {
			errs = append(errs, &InvalidLocaleError{Value: loc, Err: err})
		}
		if loc == fallback {
			hasFallback = true
		}
	}
	if len(available) > 0 && !hasFallback {
		errs = append(errs, fmt.Errorf("available locales must include the fallback %s", fallback))
	}
	return errors.Join(errs...)
}
