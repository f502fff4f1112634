package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"aura/internal/assistant"
	"aura/internal/audio"
	"aura/internal/brain"
	"aura/internal/capture"
	"aura/internal/config"
	"aura/internal/events"
	"aura/internal/ipc"
	"aura/internal/notify"
	"aura/internal/playback"
	"aura/internal/proxy"
	"aura/internal/router"
	"aura/internal/skills"
	"aura/internal/stt"
	"aura/internal/tts"
	"aura/pkg/audioconv"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty = direct)")
	eventsAddr := cli.String("events", "", "WebSocket event feed address (empty = disabled)")
	terminal := cli.Bool("terminal", false, "Read commands from stdin instead of the microphone")
	selfTest := cli.Bool("test", false, "Run a one-shot speak/capture/route check and exit")
	sttFile := cli.String("stt-file", "", "Transcribe an audio file and exit")
	dumpAudio := cli.String("dump-audio", "", "Write each captured utterance to this WAV file")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))
	logger := log.Default()

	log.Info("Booting up")

	godotenv.Load(*envFile)
	cfg := config.FromEnv()
	if *eventsAddr != "" {
		cfg.EventsAddr = *eventsAddr
	}

	httpClient := http.DefaultClient
	if *proxyAddr != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(*proxyAddr, proxy.DefaultTimeout)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	google := stt.NewGoogle(os.Getenv("GOOGLE_SPEECH_KEY"), httpClient)

	if *sttFile != "" {
		transcribeFile(google, cfg, *sttFile)
		return
	}

	var recognizer capture.Recognizer = google
	if *dumpAudio != "" {
		recognizer = &dumpingRecognizer{inner: google, path: *dumpAudio}
	}

	player, err := playback.NewExecPlayer(cfg.Players)
	if err != nil {
		log.Error("No audio player available", "err", err)
		os.Exit(1)
	}
	log.Debug("Loaded player", "bin", player.Command())

	synth := tts.NewGTTS(cfg.TempAudioFile, httpClient)
	worker := playback.NewWorker(synth, player, cfg.TTSLang, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	var capturer assistant.Capturer
	if *terminal {
		capturer = &terminalCapturer{in: bufio.NewScanner(os.Stdin), canceler: worker}
		log.Info("Terminal mode, type commands")
	} else {
		rec := audio.NewRecorder(cfg.EnergyThreshold, cfg.DynamicEnergy)
		if err := rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()
		log.Debug("Loaded recorder")

		mic := capture.New(rec, recognizer, worker, cfg.STTLang, cfg.AmbientDuration, logger)
		capturer = withEarcon(mic, cfg.EarconFile)
	}

	handlers := []skills.Handler{
		skills.NewSystem(config.ProgramsForOS(runtime.GOOS), logger),
		skills.NewWeb(config.WebShortcuts, logger),
		skills.NewSearch(logger),
	}
	b := brain.New(cfg, httpClient, logger)
	rt := router.New(handlers, b, logger)

	if *selfTest {
		runSelfTest(ctx, worker, capturer, rt)
		return
	}

	var hub *events.Hub
	if cfg.EventsAddr != "" {
		hub = events.NewHub(logger)
		go func() {
			if err := hub.ListenAndServe(cfg.EventsAddr); err != nil {
				log.Error("Event feed stopped", "err", err)
			}
		}()
	}

	stopIPC, err := ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "stop":
			worker.CancelCurrent()
		case "say":
			worker.Enqueue(msg.Text)
		case "quit":
			cancel()
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer stopIPC()

	log.Info("Boot up - successful")

	loop := assistant.New(cfg, capturer, rt, worker, hub, logger)
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Error("Assistant stopped", "err", err)
		os.Exit(1)
	}
	log.Info("Goodbye")
}

func transcribeFile(recognizer *stt.Google, cfg config.Config, path string) {
	pcm, err := audioconv.ConvertFileToPCM16k(context.Background(), path, audioconv.Options{})
	if err != nil {
		log.Error("Failed to decode file", "path", path, "err", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	text, err := recognizer.Recognize(ctx, pcm, cfg.STTLang)
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

// runSelfTest exercises the three stages once: speak a fixed phrase,
// capture one utterance, route a known command.
func runSelfTest(ctx context.Context, worker *playback.Worker, capturer assistant.Capturer, rt *router.Router) {
	log.Info("Test 1/3: speech synthesis")
	worker.Enqueue("Probando sistema de voz")
	if !worker.WaitIdle(30 * time.Second) {
		log.Warn("Synthesis or playback did not finish")
	}

	log.Info("Test 2/3: speech capture, say something")
	res := capturer.Capture(ctx, 5*time.Second, 10*time.Second)
	if res.Kind == capture.Recognized {
		log.Info("Recognized", "text", res.Text)
	} else {
		log.Warn("No usable capture", "kind", res.Kind.String(), "err", res.Err)
	}

	log.Info("Test 3/3: command routing")
	out := rt.Route(ctx, "hola")
	log.Info("Routed", "response", out.Response)

	log.Info("Tests completed")
}

// terminalCapturer substitutes typed lines for microphone turns, for use
// on machines with no audio input.
type terminalCapturer struct {
	in       *bufio.Scanner
	canceler capture.Canceler
}

func (t *terminalCapturer) Capture(ctx context.Context, _, _ time.Duration) capture.Result {
	t.canceler.CancelCurrent()
	fmt.Print("> ")
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return capture.Result{Kind: capture.DeviceError, Err: err}
		}
		// stdin closed; end the session instead of retrying forever.
		return capture.Result{Kind: capture.Recognized, Text: "salir"}
	}
	text := strings.ToLower(strings.TrimSpace(t.in.Text()))
	if text == "" {
		return capture.Result{Kind: capture.NoSpeech}
	}
	return capture.Result{Kind: capture.Recognized, Text: text}
}

// dumpingRecognizer writes each utterance to a WAV file before handing it
// to the recognizer, for threshold tuning.
type dumpingRecognizer struct {
	inner capture.Recognizer
	path  string
}

func (d *dumpingRecognizer) Recognize(ctx context.Context, pcm []float32, lang string) (string, error) {
	if err := audioconv.DumpWAV16k(d.path, pcm); err != nil {
		log.Warn("Failed to dump utterance", "path", d.path, "err", err)
	}
	return d.inner.Recognize(ctx, pcm, lang)
}

// earconCapturer plays a short cue before each microphone turn.
type earconCapturer struct {
	inner  assistant.Capturer
	earcon string
}

func withEarcon(inner assistant.Capturer, earcon string) assistant.Capturer {
	if earcon == "" {
		return inner
	}
	return &earconCapturer{inner: inner, earcon: earcon}
}

func (e *earconCapturer) Capture(ctx context.Context, timeout, phrase time.Duration) capture.Result {
	if err := notify.Play(e.earcon); err != nil {
		log.Warn("Failed to play earcon", "err", err)
	}
	return e.inner.Capture(ctx, timeout, phrase)
}
