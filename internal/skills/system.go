package skills

import (
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strings"
)

// System launches local programs by spoken alias ("abre firefox").
type System struct {
	programs map[string][]string
	aliasRe  *regexp.Regexp
	log      *slog.Logger

	lookPath func(string) (string, error)
	start    func(argv []string) error
}

func NewSystem(programs map[string][]string, log *slog.Logger) *System {
	return &System{
		programs: programs,
		aliasRe:  compileAliasPattern(programs),
		log:      log.With("skill", "system"),
		lookPath: exec.LookPath,
		start:    startProcess,
	}
}

func (s *System) Name() string { return "system" }

func (s *System) Handle(text string) (string, bool, error) {
	if s.aliasRe == nil {
		return "", false, nil
	}
	alias := s.aliasRe.FindString(text)
	if alias == "" {
		return "", false, nil
	}

	argv := s.programs[alias]
	if _, err := s.lookPath(argv[0]); err != nil {
		return fmt.Sprintf("Lo siento, %s no está instalado en tu sistema.", alias), true, nil
	}

	if err := s.start(argv); err != nil {
		s.log.Error("launch failed", "alias", alias, "err", err)
		return "", true, fmt.Errorf("launch %s: %w", alias, err)
	}

	s.log.Info("program launched", "alias", alias, "bin", argv[0])
	return fmt.Sprintf("Abriendo %s.", alias), true, nil
}

// compileAliasPattern builds a word-bounded alternation over the aliases,
// longest first so "visual studio code" wins over "code".
func compileAliasPattern(programs map[string][]string) *regexp.Regexp {
	if len(programs) == 0 {
		return nil
	}
	aliases := make([]string, 0, len(programs))
	for a := range programs {
		aliases = append(aliases, a)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	for i, a := range aliases {
		aliases[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`\b(` + strings.Join(aliases, "|") + `)\b`)
}

func startProcess(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
