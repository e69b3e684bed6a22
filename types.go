package addonsync

// Type classifies an add-on by its primary content.
type Type int

const (
	TypeUnknown Type = iota
	TypeCore
	TypeCampaign
	TypeScenario
	TypeCampaignSPMP
	TypeCampaignMP
	TypeScenarioMP
	TypeMapPack
	TypeEra
	TypeFaction
	TypeModMP
	TypeMedia
	TypeOther
)

var typeNames = [...]string{
	TypeUnknown:      "unknown",
	TypeCore:         "core",
	TypeCampaign:     "campaign",
	TypeScenario:     "scenario",
	TypeCampaignSPMP: "campaign_sp_mp",
	TypeCampaignMP:   "campaign_mp",
	TypeScenarioMP:   "scenario_mp",
	TypeMapPack:      "map_pack",
	TypeEra:          "era",
	TypeFaction:      "faction",
	TypeModMP:        "mod_mp",
	TypeMedia:        "media",
	TypeOther:        "other",
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[TypeUnknown]
	}
	return typeNames[t]
}

// ParseType maps a canonical type name to its Type. Unrecognized names map
// to TypeUnknown.
func ParseType(s string) Type {
	for t, name := range typeNames {
		if s == name {
			return Type(t)
		}
	}
	return TypeUnknown
}

// MarshalText implements encoding.TextMarshaler so types serialize by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}
