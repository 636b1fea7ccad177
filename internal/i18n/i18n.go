// Package i18n renders end-of-job summaries in the user's language.
// English and German are supported; anything else falls back to English.
package i18n

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// MaxExamples is the number of skipped file names quoted in a summary.
const MaxExamples = 3

// Supported lists the catalog languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// Message keys. They double as the English text.
const (
	keyDone          = "done"
	keyError         = "error"
	keyCancelledHead = "cancelled"
	keySaved         = "Video saved: %s"
	keySkipped       = "%d images skipped"
	keyExamples      = "e.g. %s"
	keyCancelled     = "Rendering cancelled after %d of %d images."
	keyNoInput       = "No images: add images first (files or folders)."
	keyNoDestination = "No destination: choose an output file first."
	keyInvalidSize   = "Invalid output size: %s"
	keyWriterOpen    = "Could not open the video file: %s"
	keyGeneric       = "Error: %s"
	keySkippedSoFar  = "skipped: %d"
	keyCancelling    = "Cancelling after the current image..."
	keyCancelHint    = "Press 'q' or Ctrl+C to cancel"
)

func init() {
	for _, e := range []struct {
		tag language.Tag
		key string
		msg string
	}{
		{language.English, keyDone, "done"},
		{language.English, keyError, "error"},
		{language.English, keyCancelledHead, "cancelled"},
		{language.German, keyDone, "fertig"},
		{language.German, keyError, "fehler"},
		{language.German, keyCancelledHead, "abgebrochen"},
		{language.German, keySaved, "Video gespeichert: %s"},
		{language.German, keyExamples, "z. B. %s"},
		{language.German, keyCancelled, "Abgebrochen nach %d von %d Bildern."},
		{language.German, keyNoInput, "Keine Bilder: Bitte füge zuerst Bilder hinzu (Dateien oder Ordner)."},
		{language.German, keyNoDestination, "Keine Zieldatei: Bitte wähle zuerst eine Zieldatei zum Speichern."},
		{language.German, keyInvalidSize, "Ungültige Ausgabegröße: %s"},
		{language.German, keyWriterOpen, "Videodatei konnte nicht geöffnet werden: %s"},
		{language.German, keyGeneric, "Fehler: %s"},
		{language.German, keySkippedSoFar, "übersprungen: %d"},
		{language.German, keyCancelling, "Abbruch nach dem aktuellen Bild..."},
		{language.German, keyCancelHint, "'q' oder Strg+C zum Abbrechen"},
	} {
		_ = message.SetString(e.tag, e.key, e.msg)
	}

	_ = message.Set(language.English, keySkipped, plural.Selectf(1, "%d",
		"=1", "1 image skipped",
		"other", "%[1]d images skipped",
	))
	_ = message.Set(language.German, keySkipped, plural.Selectf(1, "%d",
		"=1", "1 Bild übersprungen",
		"other", "%[1]d Bilder übersprungen",
	))
}

// Match picks the catalog language for a locale string such as
// "de_DE.UTF-8", "de-AT" or "en".
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return Supported[0]
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return Supported[0]
	}
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// Summarizer formats job results for one language.
type Summarizer struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// New creates a Summarizer for tag.
func New(tag language.Tag) *Summarizer {
	return &Summarizer{
		tag:     tag,
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

// Language returns the summarizer's language.
func (s *Summarizer) Language() language.Tag {
	return s.tag
}

// Title returns a one-word heading for the result ("Done", "Fehler", ...).
func (s *Summarizer) Title(result domain.RenderResult) string {
	key := keyDone
	switch result.Outcome {
	case domain.OutcomeCancelled:
		key = keyCancelledHead
	case domain.OutcomeFailed:
		key = keyError
	}
	return s.title.String(s.printer.Sprintf(key))
}

// Summary describes the result: the output path on success plus skip count
// and example file names, or the failure reason.
func (s *Summarizer) Summary(result domain.RenderResult) string {
	p := s.printer
	switch result.Outcome {
	case domain.OutcomeCompleted:
		var b strings.Builder
		b.WriteString(p.Sprintf(keySaved, result.Output))
		if n := len(result.Skipped); n > 0 {
			b.WriteString("\n")
			b.WriteString(p.Sprintf(keySkipped, n))
			b.WriteString(" (")
			b.WriteString(p.Sprintf(keyExamples, strings.Join(Examples(result.Skipped, MaxExamples), ", ")))
			if n > MaxExamples {
				b.WriteString(", …")
			}
			b.WriteString(")")
		}
		return b.String()
	case domain.OutcomeCancelled:
		return p.Sprintf(keyCancelled, result.Processed, result.Total)
	}

	switch result.FailureKind() {
	case domain.FailureNoInput:
		return p.Sprintf(keyNoInput)
	case domain.FailureNoDestination:
		return p.Sprintf(keyNoDestination)
	case domain.FailureInvalidSize:
		return p.Sprintf(keyInvalidSize, result.ErrorMessage())
	case domain.FailureWriterOpenFailed:
		return p.Sprintf(keyWriterOpen, result.ErrorMessage())
	default:
		return p.Sprintf(keyGeneric, result.ErrorMessage())
	}
}

// SkippedSoFar labels the running count of skipped images.
func (s *Summarizer) SkippedSoFar(n int) string {
	return s.printer.Sprintf(keySkippedSoFar, n)
}

// Cancelling is shown while a cancellation is pending.
func (s *Summarizer) Cancelling() string {
	return s.printer.Sprintf(keyCancelling)
}

// CancelHint tells the user how to cancel.
func (s *Summarizer) CancelHint() string {
	return s.printer.Sprintf(keyCancelHint)
}

// Examples returns the base names of the first limit skipped items.
func Examples(items []domain.SkippedItem, limit int) []string {
	if len(items) < limit {
		limit = len(items)
	}
	names := make([]string, 0, limit)
	for _, it := range items[:limit] {
		names = append(names, filepath.Base(it.Path))
	}
	return names
}
