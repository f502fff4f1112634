package skills

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

var searchKeywords = []string{
	"buscar en google", "búsqueda", "googlea", "buscar", "busca",
}

const youtubeKeyword = "busca en youtube"

// Web opens known sites by spoken name ("abre youtube").
type Web struct {
	shortcuts map[string]string
	log       *slog.Logger

	open func(rawURL string) error
}

func NewWeb(shortcuts map[string]string, log *slog.Logger) *Web {
	return &Web{
		shortcuts: shortcuts,
		log:       log.With("skill", "web"),
		open:      openURL,
	}
}

func (w *Web) Name() string { return "web" }

func (w *Web) Handle(text string) (string, bool, error) {
	// "busca en youtube ..." is a search command, not navigation; leave it
	// for the search skill even though "youtube" is a shortcut name.
	if strings.Contains(text, youtubeKeyword) {
		return "", false, nil
	}

	for name, u := range w.shortcuts {
		if !strings.Contains(text, name) {
			continue
		}
		if err := w.open(u); err != nil {
			w.log.Error("open url failed", "site", name, "err", err)
			return fmt.Sprintf("No pude abrir %s. Verifica tu navegador.", name), true, nil
		}
		w.log.Info("site opened", "site", name, "url", u)
		return fmt.Sprintf("Abriendo %s.", name), true, nil
	}

	// Spoken URLs bypass the shortcut table.
	if raw := firstURL(text); raw != "" {
		if err := w.open(raw); err != nil {
			w.log.Error("open url failed", "url", raw, "err", err)
			return "No pude abrir página web. Verifica tu navegador.", true, nil
		}
		w.log.Info("site opened", "url", raw)
		return "Abriendo página web.", true, nil
	}

	return "", false, nil
}

func firstURL(text string) string {
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
			return word
		}
	}
	return ""
}

// Search runs Google queries for commands like "busca recetas de pasta".
type Search struct {
	log *slog.Logger

	open func(rawURL string) error
}

func NewSearch(log *slog.Logger) *Search {
	return &Search{
		log:  log.With("skill", "search"),
		open: openURL,
	}
}

func (s *Search) Name() string { return "search" }

func (s *Search) Handle(text string) (string, bool, error) {
	// YouTube searches carry their own keyword and target.
	if idx := strings.Index(text, youtubeKeyword); idx >= 0 {
		term := strings.TrimSpace(text[idx+len(youtubeKeyword):])
		if term != "" {
			u := "https://www.youtube.com/results?search_query=" + url.QueryEscape(term)
			if err := s.open(u); err != nil {
				s.log.Error("youtube search failed", "term", term, "err", err)
				return fmt.Sprintf("No pude realizar la búsqueda de '%s'.", term), true, nil
			}
			s.log.Info("youtube search opened", "term", term)
			return fmt.Sprintf("Buscando '%s' en YouTube ahora mismo.", term), true, nil
		}
	}

	term := extractSearchTerm(text)
	if term == "" {
		return "", false, nil
	}

	u := "https://www.google.com/search?q=" + url.QueryEscape(term)
	if err := s.open(u); err != nil {
		s.log.Error("search failed", "term", term, "err", err)
		return fmt.Sprintf("No pude realizar la búsqueda de '%s'.", term), true, nil
	}

	s.log.Info("search opened", "term", term)
	return fmt.Sprintf("Buscando '%s' en Google.", term), true, nil
}

// extractSearchTerm takes the text after the first search keyword and strips
// trailing politeness. Returns "" when no keyword is present or nothing
// follows it.
func extractSearchTerm(text string) string {
	for _, kw := range searchKeywords {
		idx := strings.Index(text, kw)
		if idx < 0 {
			continue
		}
		term := text[idx+len(kw):]
		for _, filler := range []string{"en google", "por favor", "para mí", "para mi"} {
			term = strings.ReplaceAll(term, filler, "")
		}
		term = strings.TrimSpace(term)
		if term != "" {
			return term
		}
	}
	return ""
}

func openURL(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
