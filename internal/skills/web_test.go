package skills

import (
	"errors"
	"testing"
)

func TestWebOpensShortcut(t *testing.T) {
	w := NewWeb(map[string]string{"youtube": "https://www.youtube.com"}, discardLogger())

	var opened []string
	w.open = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	resp, handled, err := w.Handle("abre youtube por favor")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "Abriendo youtube." {
		t.Fatalf("resp = %q", resp)
	}
	if len(opened) != 1 || opened[0] != "https://www.youtube.com" {
		t.Fatalf("opened = %v", opened)
	}
}

func TestWebBrowserFailure(t *testing.T) {
	w := NewWeb(map[string]string{"youtube": "https://www.youtube.com"}, discardLogger())
	w.open = func(string) error { return errors.New("no display") }

	resp, handled, err := w.Handle("abre youtube")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "No pude abrir youtube. Verifica tu navegador." {
		t.Fatalf("resp = %q", resp)
	}
}

func TestWebNoShortcutNoMatch(t *testing.T) {
	w := NewWeb(map[string]string{"youtube": "https://www.youtube.com"}, discardLogger())
	w.open = func(string) error { t.Fatal("open must not be called"); return nil }

	_, handled, _ := w.Handle("cuéntame un chiste")
	if handled {
		t.Fatal("unrelated text matched a shortcut")
	}
}

func TestSearchOpensGoogleQuery(t *testing.T) {
	s := NewSearch(discardLogger())

	var opened []string
	s.open = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	resp, handled, err := s.Handle("busca recetas de pasta en google por favor")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "Buscando 'recetas de pasta' en Google." {
		t.Fatalf("resp = %q", resp)
	}
	if len(opened) != 1 || opened[0] != "https://www.google.com/search?q=recetas+de+pasta" {
		t.Fatalf("opened = %v", opened)
	}
}

func TestWebOpensSpokenURL(t *testing.T) {
	w := NewWeb(map[string]string{"youtube": "https://www.youtube.com"}, discardLogger())

	var opened []string
	w.open = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	resp, handled, err := w.Handle("abre https://go.dev/doc ahora")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "Abriendo página web." {
		t.Fatalf("resp = %q", resp)
	}
	if len(opened) != 1 || opened[0] != "https://go.dev/doc" {
		t.Fatalf("opened = %v", opened)
	}
}

func TestWebLeavesYoutubeSearchUnclaimed(t *testing.T) {
	w := NewWeb(map[string]string{"youtube": "https://www.youtube.com"}, discardLogger())
	w.open = func(string) error { t.Fatal("open must not be called"); return nil }

	_, handled, _ := w.Handle("busca en youtube gatos")
	if handled {
		t.Fatal("youtube search claimed by the navigation skill")
	}
}

func TestSearchOpensYoutubeQuery(t *testing.T) {
	s := NewSearch(discardLogger())

	var opened []string
	s.open = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	resp, handled, err := s.Handle("busca en youtube videos de gatos")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "Buscando 'videos de gatos' en YouTube ahora mismo." {
		t.Fatalf("resp = %q", resp)
	}
	if len(opened) != 1 || opened[0] != "https://www.youtube.com/results?search_query=videos+de+gatos" {
		t.Fatalf("opened = %v", opened)
	}
}

func TestSearchNoKeywordNoMatch(t *testing.T) {
	s := NewSearch(discardLogger())
	s.open = func(string) error { t.Fatal("open must not be called"); return nil }

	_, handled, _ := s.Handle("abre la ventana")
	if handled {
		t.Fatal("text without a search keyword matched")
	}
}

func TestSearchBrowserFailure(t *testing.T) {
	s := NewSearch(discardLogger())
	s.open = func(string) error { return errors.New("no display") }

	resp, handled, err := s.Handle("googlea el clima de hoy")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if resp != "No pude realizar la búsqueda de 'el clima de hoy'." {
		t.Fatalf("resp = %q", resp)
	}
}

func TestExtractSearchTerm(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"busca recetas de pasta", "recetas de pasta"},
		{"buscar en google gatos", "gatos"},
		{"googlea el clima por favor", "el clima"},
		{"busca", ""},
		{"hola cómo estás", ""},
	}
	for _, tc := range cases {
		if got := extractSearchTerm(tc.in); got != tc.want {
			t.Errorf("extractSearchTerm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
