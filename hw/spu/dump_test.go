package spu

import (
	"encoding/json"
	"testing"
)

func TestDumpJSONWellFormed(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1
	s.voices[0].KeyOn()

	raw := s.DumpJSON()

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("DumpJSON produced invalid JSON: %v\n%s", err, raw)
	}

	if decoded["enabled"] != true {
		t.Errorf("enabled = %v, want true", decoded["enabled"])
	}

	voices, ok := decoded["voices"].([]any)
	if !ok || len(voices) != 24 {
		t.Fatalf("voices = %v, want a 24-element array", decoded["voices"])
	}

	v0, ok := voices[0].(map[string]any)
	if !ok {
		t.Fatalf("voices[0] = %v, want an object", voices[0])
	}
	if v0["phase"] != "ADSRPhaseAttack" {
		t.Errorf("voices[0].phase = %v, want ADSRPhaseAttack", v0["phase"])
	}
}
