package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

const AssistantName = "Aura"

const PersonaPrompt = `Actúa como Aura, una asistente de IA brillante, servicial y amigable.
Características:
- Eres concisa pero completa en tus respuestas
- Usas un tono profesional pero cercano
- Si no sabes algo, lo admites honestamente
- Siempre intentas ser útil y proactiva

IMPORTANTE para respuestas de voz:
- NO uses formato markdown (nada de asteriscos, guiones bajos, hashtags)
- NO uses emojis
- NO uses negritas ni cursivas
- Escribe todo en texto plano y natural`

// Responses spoken by the assistant itself, not by a collaborator.
const (
	Farewell       = "¡Hasta luego! Fue un placer ayudarte."
	Apology        = "Lo siento, tuve un problema procesando tu solicitud."
	ServiceNotice  = "Tengo problemas con el servicio de reconocimiento de voz. Verifica la conexión a internet."
	DeviceNotice   = "No puedo acceder al micrófono. Verifica que esté conectado."
	Greeting       = "Hola, soy Aura. ¿En qué puedo ayudarte?"
	NotConfigured  = "Lo siento, no puedo conectarme al modelo de lenguaje. Verifica que hayas configurado OPENROUTER_API_KEY."
	EmptyReply     = "Lo siento, no pude generar una respuesta. ¿Podrías reformular tu pregunta?"
)

// ExitCommands terminate the session when found as a substring of a
// recognized command.
var ExitCommands = []string{
	"adiós", "adios", "chao", "chau",
	"termina", "terminar", "finalizar",
	"cierra el programa",
	"salir", "eso es todo",
}

type Config struct {
	// Speech capture
	STTLang         string
	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
	AmbientDuration time.Duration
	EnergyThreshold float64
	DynamicEnergy   bool

	// Speech synthesis and playback
	TTSLang       string
	TempAudioFile string
	Players       []PlayerCommand

	// LLM
	OpenRouterKey   string
	OpenRouterModel string
	OpenRouterURL   string
	AppName         string
	SiteURL         string

	// Optional wake phrase; empty disables wake mode.
	WakePhrase string

	// Control socket and event feed
	SocketPath string
	EventsAddr string

	// Earcon played before listening; empty disables it.
	EarconFile string
}

// PlayerCommand is one candidate playback process: the binary plus the
// arguments placed before the audio file path.
type PlayerCommand struct {
	Bin  string
	Args []string
}

func Default() Config {
	return Config{
		STTLang:         "es-ES",
		ListenTimeout:   5 * time.Second,
		PhraseLimit:     10 * time.Second,
		AmbientDuration: time.Second,
		EnergyThreshold: 0.015,
		DynamicEnergy:   true,

		TTSLang:       "es",
		TempAudioFile: filepath.Join(os.TempDir(), "aura", "temp_audio.mp3"),
		Players:       playersForOS(runtime.GOOS),

		OpenRouterModel: "deepseek/deepseek-chat",
		OpenRouterURL:   "https://openrouter.ai/api/v1",
		AppName:         "Aura-Assistant",

		SocketPath: "/tmp/aura.sock",
	}
}

// FromEnv applies environment overrides on top of the defaults.
// Call after godotenv has loaded the .env file.
func FromEnv() Config {
	cfg := Default()

	cfg.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")
	if v := os.Getenv("OPENROUTER_MODEL"); v != "" {
		cfg.OpenRouterModel = v
	}
	if v := os.Getenv("OPENROUTER_BASE_URL"); v != "" {
		cfg.OpenRouterURL = v
	}
	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.AppName = v
	}
	cfg.SiteURL = os.Getenv("SITE_URL")

	if v := os.Getenv("AURA_STT_LANG"); v != "" {
		cfg.STTLang = v
	}
	if v := os.Getenv("AURA_TTS_LANG"); v != "" {
		cfg.TTSLang = v
	}
	if v := os.Getenv("AURA_WAKE_PHRASE"); v != "" {
		cfg.WakePhrase = v
	}
	if v := os.Getenv("AURA_SOCKET"); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv("AURA_EVENTS"); v != "" {
		cfg.EventsAddr = v
	}
	if v := os.Getenv("AURA_EARCON"); v != "" {
		cfg.EarconFile = v
	}
	if v := os.Getenv("AURA_LISTEN_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ListenTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("AURA_PHRASE_LIMIT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.PhraseLimit = time.Duration(secs) * time.Second
		}
	}

	return cfg
}

func playersForOS(goos string) []PlayerCommand {
	switch goos {
	case "darwin":
		return []PlayerCommand{
			{Bin: "afplay"},
		}
	case "windows":
		return []PlayerCommand{
			{Bin: "cmd", Args: []string{"/c", "start", "/wait"}},
		}
	default:
		return []PlayerCommand{
			{Bin: "mpg123", Args: []string{"-q"}},
			{Bin: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
			{Bin: "mpv", Args: []string{"--no-terminal"}},
			{Bin: "cvlc", Args: []string{"--play-and-exit"}},
		}
	}
}

// ProgramsForOS maps spoken aliases to launch commands for the system skill.
func ProgramsForOS(goos string) map[string][]string {
	switch goos {
	case "darwin":
		return map[string][]string{
			"navegador":   {"open", "-a", "Firefox"},
			"firefox":     {"open", "-a", "Firefox"},
			"safari":      {"open", "-a", "Safari"},
			"chrome":      {"open", "-a", "Google Chrome"},
			"notas":       {"open", "-a", "Notes"},
			"calculadora": {"open", "-a", "Calculator"},
			"terminal":    {"open", "-a", "Terminal"},
			"finder":      {"open", "-a", "Finder"},
			"vscode":      {"open", "-a", "Visual Studio Code"},
		}
	case "windows":
		return map[string][]string{
			"navegador":   {"cmd", "/c", "start", "firefox"},
			"firefox":     {"cmd", "/c", "start", "firefox"},
			"chrome":      {"cmd", "/c", "start", "chrome"},
			"edge":        {"cmd", "/c", "start", "msedge"},
			"notepad":     {"notepad"},
			"calculadora": {"calc"},
			"explorador":  {"explorer"},
			"paint":       {"mspaint"},
		}
	default:
		return map[string][]string{
			"navegador":   {"firefox"},
			"firefox":     {"firefox"},
			"chrome":      {"google-chrome"},
			"chromium":    {"chromium-browser"},
			"calculadora": {"gnome-calculator"},
			"terminal":    {"gnome-terminal"},
			"gedit":       {"gedit"},
			"archivos":    {"nautilus"},
			"vscode":      {"code"},
		}
	}
}

// WebShortcuts maps spoken site names to URLs for the web skill.
var WebShortcuts = map[string]string{
	"youtube":       "https://www.youtube.com",
	"google":        "https://www.google.com",
	"gmail":         "https://mail.google.com",
	"facebook":      "https://www.facebook.com",
	"twitter":       "https://www.twitter.com",
	"instagram":     "https://www.instagram.com",
	"github":        "https://www.github.com",
	"stackoverflow": "https://stackoverflow.com",
	"reddit":        "https://www.reddit.com",
	"wikipedia":     "https://www.wikipedia.org",
	"whatsapp":      "https://web.whatsapp.com",
	"netflix":       "https://www.netflix.com",
	"amazon":        "https://www.amazon.com",
	"mercadolibre":  "https://www.mercadolibre.com",
}
