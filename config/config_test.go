package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brensch/tankwar/game"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Apply(game.DefaultRules()) != game.DefaultRules() {
		t.Fatalf("defaults changed rules: %+v", cfg)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeFile(t, "rules:\n  backward_delay: 3\n  max_steps: 77\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	base := game.DefaultRules()
	base.NumShells = 9
	got := cfg.Apply(base)
	if got.BackwardDelay != 3 || got.MaxSteps != 77 {
		t.Fatalf("override not applied: %+v", got)
	}
	if got.ShootCooldown != 4 || got.NoAmmoRounds != 40 || got.NumShells != 9 {
		t.Fatalf("unset keys lost defaults: %+v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"negative cooldown": "rules:\n  shoot_cooldown: -1\n",
		"zero no-ammo":      "rules:\n  no_ammo_rounds: 0\n",
		"negative shells":   "rules:\n  num_shells: -2\n",
		"bad yaml":          "rules: [\n",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
