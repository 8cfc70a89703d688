package cat

import "strings"

// Command is one parsed CAT command.
type Command struct {
	// Name is the upper-cased command letters echoed in the reply.
	Name string
	// Key selects the handler. FA, FB, IF and PS share the ZZ handlers.
	Key  string
	Data string
}

var zzAliases = map[string]bool{"FA": true, "FB": true, "IF": true, "PS": true}

// ParseCommand splits a command without its trailing semicolon.
func ParseCommand(raw string) Command {
	if len(raw) >= 2 && strings.EqualFold(raw[:2], "ZZ") {
		n := min(4, len(raw))
		name := strings.ToUpper(raw[:n])
		return Command{Name: name, Key: name, Data: raw[n:]}
	}
	n := min(2, len(raw))
	name := strings.ToUpper(raw[:n])
	key := name
	if zzAliases[name] {
		key = "ZZ" + name
	}
	return Command{Name: name, Key: key, Data: raw[n:]}
}
