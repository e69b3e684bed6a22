package addonsync

import (
	"encoding/json"
	"testing"
)

func TestTypeStrings(t *testing.T) {
	cases := []struct {
		typ  Type
		name string
	}{
		{TypeUnknown, "unknown"},
		{TypeCore, "core"},
		{TypeCampaign, "campaign"},
		{TypeScenario, "scenario"},
		{TypeCampaignSPMP, "campaign_sp_mp"},
		{TypeCampaignMP, "campaign_mp"},
		{TypeScenarioMP, "scenario_mp"},
		{TypeMapPack, "map_pack"},
		{TypeEra, "era"},
		{TypeFaction, "faction"},
		{TypeModMP, "mod_mp"},
		{TypeMedia, "media"},
		{TypeOther, "other"},
	}

	for _, tc := range cases {
		if got := tc.typ.String(); got != tc.name {
			t.Errorf("%d.String() = %q, want %q", tc.typ, got, tc.name)
		}
		if got := ParseType(tc.name); got != tc.typ {
			t.Errorf("ParseType(%q) = %v, want %v", tc.name, got, tc.typ)
		}
	}

	if got := ParseType("castle"); got != TypeUnknown {
		t.Errorf("ParseType of bogus name = %v, want unknown", got)
	}
	if got := Type(99).String(); got != "unknown" {
		t.Errorf("out of range String = %q, want unknown", got)
	}
}

func TestTypeJSON(t *testing.T) {
	data, err := json.Marshal(TypeEra)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"era"` {
		t.Errorf("marshaled as %s, want \"era\"", data)
	}

	var typ Type
	if err := json.Unmarshal([]byte(`"map_pack"`), &typ); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if typ != TypeMapPack {
		t.Errorf("unmarshaled to %v, want map_pack", typ)
	}
}
