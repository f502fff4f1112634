// Package notify plays a short earcon so the user knows the assistant is
// about to listen.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var speakerOnce sync.Once

// Play decodes the earcon file by extension and blocks until it has
// finished playing.
func Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open earcon: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	default:
		return fmt.Errorf("unsupported earcon format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode earcon: %w", err)
	}
	defer streamer.Close()

	speakerOnce.Do(func() {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
