package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSkillkitDirpath_EnvOverride(t *testing.T) {
	t.Setenv(skillkitDirpathEnvVar, "/tmp/custom-skillkit")

	dirpath, err := GetSkillkitDirpath()
	if err != nil {
		t.Fatalf("GetSkillkitDirpath failed: %v", err)
	}
	if dirpath != "/tmp/custom-skillkit" {
		t.Errorf("expected '/tmp/custom-skillkit', got '%s'", dirpath)
	}
}

func TestGetSkillkitDirpath_Default(t *testing.T) {
	t.Setenv(skillkitDirpathEnvVar, "")

	dirpath, err := GetSkillkitDirpath()
	if err != nil {
		t.Fatalf("GetSkillkitDirpath failed: %v", err)
	}
	if filepath.Base(dirpath) != defaultSkillkitDirname {
		t.Errorf("expected dirpath ending in '%s', got '%s'", defaultSkillkitDirname, dirpath)
	}
}

func TestEnsureDirStructure(t *testing.T) {
	skillkitDirpath := t.TempDir()

	if err := EnsureDirStructure(skillkitDirpath); err != nil {
		t.Fatalf("EnsureDirStructure failed: %v", err)
	}

	for _, dirname := range []string{RunsDirname, ReportsDirname, ConfigDirname, CacheDirname} {
		dirpath := filepath.Join(skillkitDirpath, dirname)
		info, err := os.Stat(dirpath)
		if err != nil {
			t.Fatalf("expected directory '%s' to exist: %v", dirpath, err)
		}
		if !info.IsDir() {
			t.Errorf("expected '%s' to be a directory", dirpath)
		}
	}

	// Config file should be seeded
	data, err := os.ReadFile(GetConfigFilepath(skillkitDirpath))
	if err != nil {
		t.Fatalf("expected seeded config file: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("expected seeded config '{}\\n', got %q", string(data))
	}

	// A second call must be a no-op
	if err := EnsureDirStructure(skillkitDirpath); err != nil {
		t.Fatalf("EnsureDirStructure (second call) failed: %v", err)
	}
}

func TestIsFirstRun(t *testing.T) {
	tmpDir := t.TempDir()

	missing := filepath.Join(tmpDir, "does-not-exist")
	firstRun, err := IsFirstRun(missing)
	if err != nil {
		t.Fatalf("IsFirstRun failed: %v", err)
	}
	if !firstRun {
		t.Error("expected first run when directory is missing")
	}

	firstRun, err = IsFirstRun(tmpDir)
	if err != nil {
		t.Fatalf("IsFirstRun failed: %v", err)
	}
	if firstRun {
		t.Error("expected not first run when directory exists")
	}
}

func TestReadEnvFile_Missing(t *testing.T) {
	skillkitDirpath := t.TempDir()

	values, err := ReadEnvFile(skillkitDirpath)
	if err != nil {
		t.Fatalf("ReadEnvFile failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty map for missing file, got %v", values)
	}
}

func TestWriteEnvFile(t *testing.T) {
	t.Run("creates file with 600 permissions", func(t *testing.T) {
		skillkitDirpath := t.TempDir()

		if err := WriteEnvFile(skillkitDirpath, map[string]string{"KLAVIYO_API_KEY": "pk_test"}); err != nil {
			t.Fatalf("WriteEnvFile failed: %v", err)
		}

		envFilepath := GetEnvFilepath(skillkitDirpath)
		info, err := os.Stat(envFilepath)
		if err != nil {
			t.Fatalf("env file not found: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
		}

		values, err := ReadEnvFile(skillkitDirpath)
		if err != nil {
			t.Fatalf("ReadEnvFile failed: %v", err)
		}
		if values["KLAVIYO_API_KEY"] != "pk_test" {
			t.Errorf("expected 'pk_test', got '%s'", values["KLAVIYO_API_KEY"])
		}
	})

	t.Run("preserves existing keys", func(t *testing.T) {
		skillkitDirpath := t.TempDir()

		if err := WriteEnvFile(skillkitDirpath, map[string]string{"KLAVIYO_API_KEY": "pk_test"}); err != nil {
			t.Fatalf("WriteEnvFile failed: %v", err)
		}
		if err := WriteEnvFile(skillkitDirpath, map[string]string{"SHOPIFY_ACCESS_TOKEN": "shpat_test"}); err != nil {
			t.Fatalf("WriteEnvFile (second call) failed: %v", err)
		}

		values, err := ReadEnvFile(skillkitDirpath)
		if err != nil {
			t.Fatalf("ReadEnvFile failed: %v", err)
		}
		if values["KLAVIYO_API_KEY"] != "pk_test" {
			t.Errorf("expected existing key to survive, got '%s'", values["KLAVIYO_API_KEY"])
		}
		if values["SHOPIFY_ACCESS_TOKEN"] != "shpat_test" {
			t.Errorf("expected 'shpat_test', got '%s'", values["SHOPIFY_ACCESS_TOKEN"])
		}
	})

	t.Run("overwrites changed keys", func(t *testing.T) {
		skillkitDirpath := t.TempDir()

		if err := WriteEnvFile(skillkitDirpath, map[string]string{"KLAVIYO_API_KEY": "pk_old"}); err != nil {
			t.Fatalf("WriteEnvFile failed: %v", err)
		}
		if err := WriteEnvFile(skillkitDirpath, map[string]string{"KLAVIYO_API_KEY": "pk_new"}); err != nil {
			t.Fatalf("WriteEnvFile (second call) failed: %v", err)
		}

		values, err := ReadEnvFile(skillkitDirpath)
		if err != nil {
			t.Fatalf("ReadEnvFile failed: %v", err)
		}
		if values["KLAVIYO_API_KEY"] != "pk_new" {
			t.Errorf("expected 'pk_new', got '%s'", values["KLAVIYO_API_KEY"])
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	skillkitDirpath := t.TempDir()
	envContent := "SKILLKIT_TEST_KLAVIYO_KEY=pk_file\nSKILLKIT_TEST_STORE_URL=file.myshopify.com\n"
	if err := os.WriteFile(GetEnvFilepath(skillkitDirpath), []byte(envContent), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SKILLKIT_TEST_KLAVIYO_KEY", "pk_real")
	os.Unsetenv("SKILLKIT_TEST_STORE_URL")
	t.Cleanup(func() { os.Unsetenv("SKILLKIT_TEST_STORE_URL") })

	if err := LoadEnvFile(skillkitDirpath); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}

	// Variables already set in the environment win over .env values
	if got := os.Getenv("SKILLKIT_TEST_KLAVIYO_KEY"); got != "pk_real" {
		t.Errorf("expected existing env var to win, got %q", got)
	}
	if got := os.Getenv("SKILLKIT_TEST_STORE_URL"); got != "file.myshopify.com" {
		t.Errorf("expected .env value to be loaded, got %q", got)
	}
}

func TestLoadEnvFile_MissingIsNoop(t *testing.T) {
	skillkitDirpath := t.TempDir()

	if err := LoadEnvFile(skillkitDirpath); err != nil {
		t.Fatalf("expected no error for missing env file, got: %v", err)
	}
}
