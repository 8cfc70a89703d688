package rigctl

import (
	"strconv"
	"strings"
	"unicode"
)

// Return codes carried in RPRT lines.
const (
	rigOK        = 0
	rigEInval    = -1
	rigENimpl    = -4
	rigEProtocol = -8
)

var shortForms = map[byte]string{
	'_': "info",
	'f': "freq",
	'i': "split_freq",
	'm': "mode",
	's': "split_vfo",
	't': "ptt",
	'v': "vfo",
}

// request is one parsed command line.
type request struct {
	name   string
	params []string
	// sep is the extended response separator; empty selects the simple
	// format.
	sep string
}

// parseCommand splits a trimmed, non-empty command line. An empty command
// name maps to the protocol error handler.
func parseCommand(line string) request {
	var r request
	switch line[0] {
	case '+':
		r.sep, line = "\n", strings.TrimSpace(line[1:])
	case ';', '|', ',':
		r.sep, line = line[:1], strings.TrimSpace(line[1:])
	}
	if line == "" {
		return r
	}
	if line[0] == '\\' {
		fields := strings.Fields(line[1:])
		if len(fields) > 0 {
			r.name, r.params = fields[0], fields[1:]
		}
		return r
	}
	letter := line[0]
	r.params = strings.Fields(line[1:])
	if letter == 'q' || letter == 'Q' {
		r.name = "quit"
		return r
	}
	long, ok := shortForms[byte(unicode.ToLower(rune(letter)))]
	switch {
	case !ok:
		r.name = string(letter)
	case unicode.IsUpper(rune(letter)):
		r.name = "set_" + long
	default:
		r.name = "get_" + long
	}
	return r
}

// reply is a handler result: name/value pairs and a return code, or raw
// text sent as is.
type reply struct {
	pairs []string
	code  int
	raw   string
	quit  bool
}

func status(code int) reply { return reply{code: code} }

func values(pairs ...string) reply { return reply{pairs: pairs} }

// format renders rep in the response format the request selected.
func (r request) format(rep reply) string {
	if rep.raw != "" {
		return rep.raw
	}
	var b strings.Builder
	switch {
	case r.sep != "":
		b.WriteString(r.name)
		b.WriteByte(':')
		for _, p := range r.params {
			b.WriteByte(' ')
			b.WriteString(p)
		}
		b.WriteString(r.sep)
		for i := 0; i+1 < len(rep.pairs); i += 2 {
			b.WriteString(rep.pairs[i])
			b.WriteString(": ")
			b.WriteString(rep.pairs[i+1])
			b.WriteString(r.sep)
		}
		b.WriteString("RPRT ")
		b.WriteString(strconv.Itoa(rep.code))
		b.WriteByte('\n')
	case len(rep.pairs) > 0:
		for i := 1; i < len(rep.pairs); i += 2 {
			b.WriteString(rep.pairs[i])
			b.WriteByte('\n')
		}
	default:
		b.WriteString("RPRT ")
		b.WriteString(strconv.Itoa(rep.code))
		b.WriteByte('\n')
	}
	return b.String()
}
