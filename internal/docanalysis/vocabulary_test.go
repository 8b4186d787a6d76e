package docanalysis

import (
	"os"
	"path/filepath"
	"testing"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestLoadVocabularyPackExtendsTriggers(t *testing.T) {
	path := writePack(t, `
types:
  - type: PHYSICAL
    triggers:
      - esclerose múltipla
`)
	rules, err := LoadVocabularyPack(path)
	if err != nil {
		t.Fatalf("LoadVocabularyPack: %v", err)
	}

	c := NewClassifier(rules)
	got := c.Classify("Paciente com esclerose múltipla em acompanhamento.")
	if got.Type != TypePhysical {
		t.Fatalf("type = %s, want PHYSICAL via pack trigger", got.Type)
	}

	// The default table stays untouched.
	if NewClassifier(nil).Classify("esclerose múltipla").Type != TypeUnidentified {
		t.Fatal("pack mutated the compiled-in rule table")
	}
}

func TestLoadVocabularyPackRejectsUnknownType(t *testing.T) {
	path := writePack(t, `
types:
  - type: SENSORY
    triggers: ["x"]
`)
	if _, err := LoadVocabularyPack(path); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestLoadVocabularyPackMissingFile(t *testing.T) {
	if _, err := LoadVocabularyPack(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadVocabularyPackKeepsRuleOrder(t *testing.T) {
	path := writePack(t, `
types:
  - type: VISUAL
    triggers: ["retinose pigmentar"]
`)
	rules, err := LoadVocabularyPack(path)
	if err != nil {
		t.Fatalf("LoadVocabularyPack: %v", err)
	}
	defaults := DefaultRules()
	if len(rules) != len(defaults) {
		t.Fatalf("rule count = %d, want %d", len(rules), len(defaults))
	}
	for i := range rules {
		if rules[i].Type != defaults[i].Type {
			t.Fatalf("rule order changed at %d: %s vs %s", i, rules[i].Type, defaults[i].Type)
		}
	}
}
