package audioconv

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestDownmixInterleaved(t *testing.T) {
	in := []float32{1, 0, 0.5, 0.5, -1, 1}
	out := downmixInterleaved(in, 2)
	want := []float32{0.5, 0.5, 0}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-6 {
			t.Fatalf("frame %d = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestResampleLinearHalvesRate(t *testing.T) {
	in := make([]float32, 320) // 10ms at 32 kHz
	out := resampleLinear(in, 32000, 16000)
	if len(out) != 160 {
		t.Fatalf("len = %d, want 160", len(out))
	}
}

func TestResampleLinearSameRateIsIdentity(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := resampleLinear(in, 16000, 16000)
	if len(out) != 3 || out[0] != 0.1 {
		t.Fatalf("out = %v", out)
	}
}

func TestDumpAndDecodeWAV(t *testing.T) {
	pcm := make([]float32, 1600) // 100ms of a 440 Hz tone
	for i := range pcm {
		pcm[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/16000))
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := DumpWAV16k(path, pcm); err != nil {
		t.Fatalf("DumpWAV16k: %v", err)
	}

	got, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("ConvertFileToPCM16k: %v", err)
	}
	if len(got) != len(pcm) {
		t.Fatalf("len = %d, want %d", len(got), len(pcm))
	}
	for i := 0; i < len(pcm); i += 100 {
		if math.Abs(float64(got[i]-pcm[i])) > 0.001 {
			t.Fatalf("sample %d = %f, want ≈%f", i, got[i], pcm[i])
		}
	}
}

func TestConvertUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")
	if err := DumpWAV16k(path+".wav", []float32{0}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := ConvertFileToPCM16k(context.Background(), path, Options{}); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestMaxSamplesTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.wav")
	if err := DumpWAV16k(path, make([]float32, 3200)); err != nil {
		t.Fatalf("DumpWAV16k: %v", err)
	}
	got, err := ConvertFileToPCM16k(context.Background(), path, Options{MaxSamples: 1000})
	if err != nil {
		t.Fatalf("ConvertFileToPCM16k: %v", err)
	}
	if len(got) != 1000 {
		t.Fatalf("len = %d, want 1000", len(got))
	}
}
