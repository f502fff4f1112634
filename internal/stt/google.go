// Package stt transcribes captured audio through the Google Web Speech API.
package stt

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrUnintelligible means the service answered but produced no transcript.
var ErrUnintelligible = errors.New("speech not understood")

const (
	endpoint   = "http://www.google.com/speech-api/v2/recognize"
	sampleRate = 16000
)

type Google struct {
	httpClient *http.Client
	key        string
}

// NewGoogle returns a recognizer using the given API key. client may be nil,
// in which case http.DefaultClient is used.
func NewGoogle(key string, client *http.Client) *Google {
	if client == nil {
		client = http.DefaultClient
	}
	return &Google{httpClient: client, key: key}
}

// Recognize sends mono 16 kHz samples to the service and returns the best
// transcript. ErrUnintelligible is returned when the service recognized
// nothing; any other error means the service itself failed.
func (g *Google) Recognize(ctx context.Context, pcm []float32, lang string) (string, error) {
	if g.key == "" {
		return "", errors.New("speech api key not configured")
	}
	if len(pcm) == 0 {
		return "", ErrUnintelligible
	}

	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", lang)
	q.Set("key", g.key)

	body := encodePCM16LE(pcm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", sampleRate))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("speech service: status %d", resp.StatusCode)
	}

	text, err := parseResponse(resp.Body)
	if err != nil {
		return "", err
	}
	return text, nil
}

// parseResponse handles the service's line-delimited JSON: an empty
// {"result":[]} line first, then the actual result when there is one.
func parseResponse(r io.Reader) (string, error) {
	type alternative struct {
		Transcript string  `json:"transcript"`
		Confidence float64 `json:"confidence"`
	}
	type result struct {
		Alternative []alternative `json:"alternative"`
		Final       bool          `json:"final"`
	}
	type response struct {
		Result []result `json:"result"`
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rsp response
		if err := json.Unmarshal(line, &rsp); err != nil {
			continue
		}
		for _, res := range rsp.Result {
			if len(res.Alternative) > 0 && res.Alternative[0].Transcript != "" {
				return res.Alternative[0].Transcript, nil
			}
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("speech response: %w", err)
	}
	return "", ErrUnintelligible
}

func encodePCM16LE(pcm []float32) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767)))
	}
	return out
}
