package texts_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"miniapp-bot/internal/texts"
)

func writeBundle(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write bundle %s: %v", name, err)
	}
}

func newTestResolver(t *testing.T) *texts.Resolver {
	t.Helper()

	dir := t.TempDir()
	writeBundle(t, dir, "en.json", `{"welcome_message": "Welcome!", "open_app_button": "Open App"}`)
	writeBundle(t, dir, "ru.json", `{"welcome_message": "Добро пожаловать!"}`)

	resolver, err := texts.Load(dir, slog.Default())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return resolver
}

func TestResolve(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	testCases := []struct {
		name     string
		key      string
		language string
		expected string
	}{
		{
			name:     "exact russian tag",
			key:      "welcome_message",
			language: "ru",
			expected: "Добро пожаловать!",
		},
		{
			name:     "regional russian tag normalizes to ru",
			key:      "welcome_message",
			language: "ru-RU",
			expected: "Добро пожаловать!",
		},
		{
			name:     "unsupported language falls back to en",
			key:      "welcome_message",
			language: "fr",
			expected: "Welcome!",
		},
		{
			name:     "empty language falls back to en",
			key:      "welcome_message",
			language: "",
			expected: "Welcome!",
		},
		{
			name:     "key absent from ru bundle stays missing",
			key:      "open_app_button",
			language: "ru",
			expected: "Missing translation: open_app_button",
		},
		{
			name:     "unknown key returns sentinel",
			key:      "nonexistent_key",
			language: "en",
			expected: "Missing translation: nonexistent_key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := resolver.Resolve(tc.key, tc.language)
			if got != tc.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tc.key, tc.language, got, tc.expected)
			}
		})
	}
}

func TestLoadMissingFallbackBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBundle(t, dir, "ru.json", `{"welcome_message": "Добро пожаловать!"}`)

	if _, err := texts.Load(dir, slog.Default()); err == nil {
		t.Fatal("expected error when en.json is missing, got nil")
	}
}

func TestLoadBrokenFallbackBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBundle(t, dir, "en.json", `{not json`)

	if _, err := texts.Load(dir, slog.Default()); err == nil {
		t.Fatal("expected error when en.json is unparsable, got nil")
	}
}

func TestLoadBrokenSecondaryBundleIsSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBundle(t, dir, "en.json", `{"welcome_message": "Welcome!"}`)
	writeBundle(t, dir, "ru.json", `{not json`)

	resolver, err := texts.Load(dir, slog.Default())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The broken ru bundle is unavailable; ru requests fall back to en.
	if got := resolver.Resolve("welcome_message", "ru"); got != "Welcome!" {
		t.Errorf("Resolve after skipped bundle = %q, want %q", got, "Welcome!")
	}
}

func TestLoadIgnoresNonJSONFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBundle(t, dir, "en.json", `{"welcome_message": "Welcome!"}`)
	writeBundle(t, dir, "notes.txt", "not a bundle")

	if _, err := texts.Load(dir, slog.Default()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}
