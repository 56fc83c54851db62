// SPDX-License-Identifier: MPL-2.0

package config

import (
	"github.com/invowk/pakextract/internal/extract"
	"github.com/invowk/pakextract/internal/locale"
)

// RequiredAssets returns the ordered required set: the explicit assets list when
// set, otherwise the locale files for lang chosen from available. available is
// used only when Locales.Available is empty.
func (c *Config) RequiredAssets(lang string, available []string) []extract.AssetName {
	if len(c.Assets) > 0 {
		return c.Assets
	}
	if len(c.Locales.Available) > 0 {
		available = c.Locales.Available
	}
	if c.Locales.Language != "" {
		lang = c.Locales.Language
	}
	return locale.PakFiles(available, lang, c.Locales.Fallback)
}

func assetStrings(names []extract.AssetName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
