// Package tts turns response text into playable audio files.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

const (
	endpoint  = "https://translate.google.com/translate_tts"
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// GTTS synthesizes speech through the Google Translate TTS endpoint and
// writes the MP3 to a fixed artifact path, replacing whatever is there.
type GTTS struct {
	httpClient *http.Client
	outPath    string
}

// NewGTTS returns a synthesizer writing to outPath. client may be nil, in
// which case http.DefaultClient is used.
func NewGTTS(outPath string, client *http.Client) *GTTS {
	if client == nil {
		client = http.DefaultClient
	}
	return &GTTS{httpClient: client, outPath: outPath}
}

// Synthesize fetches speech audio for text and returns the path of the
// written MP3. The write is atomic so a playing file is never truncated
// mid-read.
func (g *GTTS) Synthesize(ctx context.Context, text, lang string) (string, error) {
	if text == "" {
		return "", errors.New("empty text")
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", text)
	q.Set("tl", lang)
	q.Set("client", "tw-ob")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("tts service: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(g.outPath), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(g.outPath), ".tts-*.mp3")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("tts download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), g.outPath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return g.outPath, nil
}
