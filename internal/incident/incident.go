package incident

import (
	"fmt"
	"sort"
	"strings"
)

// Type is a backend incident classification, e.g. "armed_robbery".
type Type string

const (
	Kidnapping        Type = "kidnapping"
	ArmedRobbery      Type = "armed_robbery"
	Terrorism         Type = "terrorism"
	Homicide          Type = "homicide"
	Cultism           Type = "cultism"
	MilitaryOperation Type = "military_operation"
	CommunalConflict  Type = "communal_conflict"
)

// Known returns the incident types with a dedicated icon, in display order.
func Known() []Type {
	return []Type{Kidnapping, ArmedRobbery, Terrorism, Homicide, Cultism, MilitaryOperation, CommunalConflict}
}

var icons = map[Type]string{
	Kidnapping:        "🚨",
	ArmedRobbery:      "🔫",
	Terrorism:         "💣",
	Homicide:          "⚠️",
	Cultism:           "💀",
	MilitaryOperation: "🪖",
	CommunalConflict:  "⚔️",
}

const defaultIcon = "📰"

// Icon returns the marker shown next to an article of type t.
func Icon(t string) string {
	if icon, ok := icons[Type(t)]; ok {
		return icon
	}
	return defaultIcon
}

// Label renders an enum value for display: underscores become spaces and
// the result is upper-cased.
func Label(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "_", " "))
}

// Aliases maps short CLI values to incident types.
var Aliases = map[string]Type{
	"kidnap":    Kidnapping,
	"robbery":   ArmedRobbery,
	"terror":    Terrorism,
	"murder":    Homicide,
	"cult":      Cultism,
	"military":  MilitaryOperation,
	"communal":  CommunalConflict,
	"clash":     CommunalConflict,
	"homicide":  Homicide,
	"terrorism": Terrorism,
}

// Resolve maps a CLI value to an incident type. Full backend names pass
// through unchanged so types unknown to this build still work.
func Resolve(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", nil
	}
	if t, ok := Aliases[v]; ok {
		return string(t), nil
	}
	v = strings.ReplaceAll(strings.ReplaceAll(v, " ", "_"), "-", "_")
	for _, t := range Known() {
		if string(t) == v {
			return v, nil
		}
	}
	if strings.ContainsFunc(v, func(r rune) bool { return !(r == '_' || (r >= 'a' && r <= 'z')) }) {
		return "", fmt.Errorf("unknown incident type %q (valid aliases: %s)", value, strings.Join(aliasNames(), ", "))
	}
	return v, nil
}

func aliasNames() []string {
	names := make([]string, 0, len(Aliases))
	for k := range Aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
