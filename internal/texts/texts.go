// Package texts resolves user-facing strings by key and language.
// Bundles are loaded once at startup and are read-only afterwards,
// so a Resolver is safe for concurrent use.
package texts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FallbackLanguage is the bundle every lookup falls back to. Loading fails
// when this bundle is missing or unreadable.
const FallbackLanguage = "en"

// Resolver maps language identifiers to flat key/string bundles.
type Resolver struct {
	bundles map[string]map[string]string
}

// Load reads every *.json file in dir as a language bundle; the filename
// minus extension is the language identifier. A missing or broken fallback
// ("en") bundle is an error. Any other bundle that fails to parse is logged
// and skipped, leaving that language unavailable.
func Load(dir string, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "texts")

	return load(os.DirFS(dir), log)
}

func load(fsys fs.FS, log *slog.Logger) (*Resolver, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read text bundle directory: %w", err)
	}

	bundles := make(map[string]map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(name, ".json")

		data, err := fs.ReadFile(fsys, name)
		if err == nil {
			var bundle map[string]string
			if jsonErr := json.Unmarshal(data, &bundle); jsonErr != nil {
				err = jsonErr
			} else {
				bundles[lang] = bundle
				log.Debug("Loaded text bundle", "language", lang, "keys", len(bundle))
				continue
			}
		}

		if lang == FallbackLanguage {
			return nil, fmt.Errorf("failed to load fallback bundle %q: %w", name, err)
		}
		log.Warn("Skipping unreadable text bundle", "language", lang, "error", err)
	}

	if _, ok := bundles[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback bundle %q.json not found", FallbackLanguage)
	}

	log.Info("Text bundles loaded", "languages", len(bundles))
	return &Resolver{bundles: bundles}, nil
}

// Resolve returns the text for key in the bundle selected by languageTag.
// Tags starting with "ru" map to the "ru" bundle, everything else to "en";
// a selected bundle that was not loaded falls back to "en". An unknown key
// resolves to a visible sentinel string rather than an error.
func (r *Resolver) Resolve(key, languageTag string) string {
	lang := FallbackLanguage
	if strings.HasPrefix(languageTag, "ru") {
		lang = "ru"
	}

	bundle, ok := r.bundles[lang]
	if !ok {
		bundle = r.bundles[FallbackLanguage]
	}

	if text, ok := bundle[key]; ok {
		return text
	}
	return fmt.Sprintf("Missing translation: %s", key)
}
