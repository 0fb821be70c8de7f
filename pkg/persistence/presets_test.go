package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPresetStore(t *testing.T) {
	t.Run("SaveAndLoadEmpty", func(t *testing.T) {
		dir := t.TempDir()
		store := NewPresetStore(filepath.Join(dir, "presets.json"))

		if err := store.Save(&PresetState{SavedAt: time.Now()}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != StateVersion {
			t.Errorf("Version = %d, want %d", got.Version, StateVersion)
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		store := NewPresetStore(filepath.Join(t.TempDir(), "nonexistent.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() = %v, want nil", got)
		}
	})

	t.Run("CreatesParentDir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "presets.json")
		store := NewPresetStore(path)

		if err := store.Put("sim:flatbed", "photo", map[string]string{"mode": "Color"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("preset file not created: %v", err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temporary file left behind: %v", err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		store := NewPresetStore(filepath.Join(t.TempDir(), "presets.json"))
		values := map[string]string{"mode": "Gray", "resolution": "150"}

		if err := store.Put("sim:flatbed", "docs", values); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		values["mode"] = "Color" // the store keeps its own copy

		got, err := store.Get("sim:flatbed", "docs")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got["mode"] != "Gray" || got["resolution"] != "150" {
			t.Errorf("Get() = %v", got)
		}

		if _, err := store.Get("sim:sheetfed", "docs"); !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("Get() other device error = %v, want ErrPresetNotFound", err)
		}
		if _, err := store.Get("sim:flatbed", "photo"); !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("Get() unknown preset error = %v, want ErrPresetNotFound", err)
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store := NewPresetStore(filepath.Join(t.TempDir(), "presets.json"))

		_ = store.Put("dev", "a", map[string]string{"mode": "Gray"})
		_ = store.Put("dev", "a", map[string]string{"mode": "Lineart"})

		got, err := store.Get("dev", "a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got["mode"] != "Lineart" {
			t.Errorf("mode = %q, want Lineart", got["mode"])
		}
	})

	t.Run("PutEmptyName", func(t *testing.T) {
		store := NewPresetStore(filepath.Join(t.TempDir(), "presets.json"))
		if err := store.Put("dev", "", nil); err == nil {
			t.Error("Put() with empty name should fail")
		}
	})

	t.Run("NamesAndDelete", func(t *testing.T) {
		store := NewPresetStore(filepath.Join(t.TempDir(), "presets.json"))

		names, err := store.Names("dev")
		if err != nil || len(names) != 0 {
			t.Fatalf("Names() on empty store = %v, %v", names, err)
		}

		for _, n := range []string{"photo", "docs", "draft"} {
			if err := store.Put("dev", n, map[string]string{}); err != nil {
				t.Fatalf("Put(%s) error = %v", n, err)
			}
		}

		names, err = store.Names("dev")
		if err != nil {
			t.Fatalf("Names() error = %v", err)
		}
		want := []string{"docs", "draft", "photo"}
		if len(names) != len(want) {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Names()[%d] = %s, want %s", i, names[i], want[i])
			}
		}

		if err := store.Delete("dev", "draft"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := store.Delete("dev", "draft"); !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("second Delete() error = %v, want ErrPresetNotFound", err)
		}
		names, _ = store.Names("dev")
		if len(names) != 2 {
			t.Errorf("Names() after delete = %v", names)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.json")
		store := NewPresetStore(path)

		_ = store.Put("dev", "a", map[string]string{"mode": "Gray"})
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file should not exist after Clear()")
		}
		if err := store.Clear(); err != nil {
			t.Errorf("Clear() on missing file error = %v", err)
		}
	})

	t.Run("NewerVersion", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.json")
		if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewPresetStore(path).Load(); err == nil {
			t.Error("Load() should reject a newer format version")
		}
	})

	t.Run("Corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewPresetStore(path).Get("dev", "a"); err == nil {
			t.Error("Get() should fail on a corrupt file")
		}
	})
}
