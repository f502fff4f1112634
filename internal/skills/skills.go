// Package skills holds the local command handlers tried before the
// conversation falls through to the language model.
package skills

// Handler is one local skill. Handle returns the spoken response and
// whether the skill claimed the command; an error means the skill matched
// but failed to act, and the router moves on to the next handler.
type Handler interface {
	Name() string
	Handle(text string) (response string, handled bool, err error)
}
