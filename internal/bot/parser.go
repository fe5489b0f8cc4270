package bot

import (
	"fmt"
	"strings"
)

// Command is the structured form of one inbound text: a canonical keyword,
// single-letter flags, and positional arguments.
type Command struct {
	Keyword string
	Flags   map[string]bool
	Args    []string
}

func (c Command) Flag(name string) bool { return c.Flags[name] }

type UnknownCommandError struct{ Input string }

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Input)
}

// keywords, longest phrase first so "add creditor" wins over "add".
var keywords = []string{
	"get cred amount",
	"get total cred",
	"change price",
	"add creditor",
	"del creditor",
	"add new",
	"creditors",
	"weekly",
	"daily",
	"order",
	"help",
	"pay",
	"add",
	"low",
	"l",
	"t",
}

// spoken long forms map onto the short command surface.
var aliases = map[string]string{
	"add manual":             "add new -m",
	"add products manually":  "add new -m",
	"add barcode":            "add new -b",
	"add products by barcode": "add new -b",
	"add voice":              "add -v",
	"add products by voice":  "add -v",
	"update price manual":    "change price -m",
	"modify price manual":    "change price -m",
	"update price barcode":   "change price -b",
	"modify price barcode":   "change price -b",
	"order manual":           "order -m",
	"create order manual":    "order -m",
	"order barcode":          "order -b",
	"create order barcode":   "order -b",
	"low stock":              "low",
	"low inventory":          "low",
	"stock alert":            "low",
	"daily sales":            "daily",
	"today sales":            "daily",
	"weekly sales":           "weekly",
	"week sales":             "weekly",
	"list creditors":         "creditors",
	"show creditors":         "creditors",
	"new creditor":           "add creditor",
	"create creditor":        "add creditor",
	"delete creditor":        "del creditor",
	"remove creditor":        "del creditor",
	"pay creditor":           "pay",
	"make payment":           "pay",
	"check credit":           "get cred amount",
	"view credit":            "get cred amount",
	"total credit":           "get total cred",
	"all credit":             "get total cred",
	"total":                  "t",
	"sum":                    "t",
	"list":                   "l",
	"guide":                  "help",
	"commands":               "help",
}

// noArgKeywords reject trailing tokens outright: a partial match never
// silently dispatches.
var noArgKeywords = map[string]bool{
	"help": true, "l": true, "low": true, "creditors": true,
	"get total cred": true, "daily": true, "weekly": true,
	"add new": true, "add": true, "change price": true, "order": true,
	"add creditor": true, "del creditor": true,
}

// Parse turns normalized text into a Command. It is total: every input either
// yields a recognized command or an UnknownCommandError, never a partial match.
func Parse(text string) (Command, error) {
	text = Normalize(text)
	if text == "" {
		return Command{}, &UnknownCommandError{Input: text}
	}
	if canon, ok := aliases[text]; ok {
		text = canon
	}

	tokens := strings.Fields(text)

	// flags may appear anywhere after the keyword
	flags := map[string]bool{}
	rest := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) == 2 && tok[0] == '-' && tok[1] >= 'a' && tok[1] <= 'z' {
			flags[tok[1:]] = true
			continue
		}
		rest = append(rest, tok)
	}

	for _, kw := range keywords {
		kwTokens := strings.Fields(kw)
		if len(rest) < len(kwTokens) {
			continue
		}
		if strings.Join(rest[:len(kwTokens)], " ") != kw {
			continue
		}
		args := rest[len(kwTokens):]
		if noArgKeywords[kw] && len(args) > 0 {
			return Command{}, &UnknownCommandError{Input: text}
		}
		return Command{Keyword: kw, Flags: flags, Args: args}, nil
	}
	return Command{}, &UnknownCommandError{Input: text}
}
