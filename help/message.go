package help

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/dzonerzy/go-getopt/getopt"
)

// Message keys. The English text doubles as the key.
const (
	keyUnrecognized   = "unrecognized option: %s"
	keySuggestion     = "did you mean %s?"
	keyAmbiguous      = "ambiguous option: %s (could be: %s)"
	keyMissingArg     = "missing argument for option: %s"
	keyMissingOne     = "missing required option: %s"
	keyMissingMany    = "missing required options: %s"
	keyAlreadySel     = "option %s cannot be used with %s: both belong to group %s"
	keySwitchSet      = "switch already set: %s"
	keyInvalidValue   = "invalid value %q for option %s"
	keyInvalidCause   = "invalid value %q for option %s: %v"
	keyTooMany        = "too many options from group %s: unexpected %s"
	keyInvalidOption  = "invalid option definition: %s"
	invalidOptionHead = "invalid option definition: "
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		keyUnrecognized:  "unbekannte Option: %s",
		keySuggestion:    "meinten Sie %s?",
		keyAmbiguous:     "mehrdeutige Option: %s (möglich: %s)",
		keyMissingArg:    "fehlendes Argument für Option: %s",
		keyMissingOne:    "erforderliche Option fehlt: %s",
		keyMissingMany:   "erforderliche Optionen fehlen: %s",
		keyAlreadySel:    "Option %s kann nicht zusammen mit %s verwendet werden: beide gehören zur Gruppe %s",
		keySwitchSet:     "Schalter bereits gesetzt: %s",
		keyInvalidValue:  "ungültiger Wert %q für Option %s",
		keyInvalidCause:  "ungültiger Wert %q für Option %s: %v",
		keyTooMany:       "zu viele Optionen aus Gruppe %s: %s nicht erwartet",
		keyInvalidOption: "ungültige Optionsdefinition: %s",
	},
}

var messages = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range []string{
		keyUnrecognized, keySuggestion, keyAmbiguous, keyMissingArg,
		keyMissingOne, keyMissingMany, keyAlreadySel, keySwitchSet,
		keyInvalidValue, keyInvalidCause, keyTooMany, keyInvalidOption,
	} {
		mustSet(b, language.English, key, key)
	}
	for tag, msgs := range translations {
		for key, msg := range msgs {
			mustSet(b, tag, key, msg)
		}
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key, msg string) {
	if err := b.SetString(tag, key, msg); err != nil {
		panic(err)
	}
}

// Languages returns the languages Message can produce.
func Languages() []language.Tag {
	return messages.Languages()
}

// Message renders err for a user in the language closest to tag. Errors
// that are not *getopt.ParseError are returned as err.Error().
func Message(err error, tag language.Tag) string {
	var pe *getopt.ParseError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	p := message.NewPrinter(tag, message.Catalog(messages))

	switch pe.Type {
	case getopt.ErrorTypeUnrecognizedOption:
		msg := p.Sprintf(keyUnrecognized, pe.Token)
		if pe.Suggestion != "" {
			msg += "; " + p.Sprintf(keySuggestion, pe.Suggestion)
		}
		return msg
	case getopt.ErrorTypeAmbiguousOption:
		return p.Sprintf(keyAmbiguous, pe.Token, strings.Join(pe.Candidates, ", "))
	case getopt.ErrorTypeMissingArgument:
		return p.Sprintf(keyMissingArg, pe.Option)
	case getopt.ErrorTypeMissingOption:
		if len(pe.Missing) == 1 {
			return p.Sprintf(keyMissingOne, pe.Missing[0])
		}
		return p.Sprintf(keyMissingMany, strings.Join(pe.Missing, ", "))
	case getopt.ErrorTypeAlreadySelected:
		return p.Sprintf(keyAlreadySel, pe.Second, pe.First, pe.Group)
	case getopt.ErrorTypeSwitchAlreadySet:
		return p.Sprintf(keySwitchSet, pe.Option)
	case getopt.ErrorTypeInvalidValue:
		if pe.Cause != nil {
			return p.Sprintf(keyInvalidCause, pe.Token, pe.Option, pe.Cause)
		}
		return p.Sprintf(keyInvalidValue, pe.Token, pe.Option)
	case getopt.ErrorTypeTooManyOptions:
		return p.Sprintf(keyTooMany, pe.Group, pe.Second)
	case getopt.ErrorTypeInvalidOption:
		return p.Sprintf(keyInvalidOption, strings.TrimPrefix(pe.Message, invalidOptionHead))
	default:
		return pe.Error()
	}
}
