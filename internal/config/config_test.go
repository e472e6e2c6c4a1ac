package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"uniformdash/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithInfo_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.PortSpecified {
		t.Fatalf("port must not be reported as specified")
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigWithInfo_File(t *testing.T) {
	path := writeFile(t, "config.toml", `
[server]
port = 8088
dev_mode = true

[data]
db_name = "test.db"

[source]
mode = "Remote"
remote_url = "http://127.0.0.1:5000"
timeout_seconds = 5
`)
	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 8088 || !cfg.Server.DevMode {
		t.Fatalf("server config not applied: %+v info=%+v", cfg.Server, info)
	}
	if cfg.Data.DataDir != "data" || cfg.Data.DBName != "test.db" || !cfg.Data.SeedOnEmpty {
		t.Fatalf("data defaults lost: %+v", cfg.Data)
	}
	if cfg.Source.Mode != SourceRemote || cfg.Source.Timeout() != 5*time.Second {
		t.Fatalf("source config: %+v", cfg.Source)
	}
	if cfg.Source.Employees != 500 {
		t.Fatalf("employees default want=500 got=%d", cfg.Source.Employees)
	}
}

func TestLoadConfigWithInfo_EnvOverrides(t *testing.T) {
	t.Setenv(EnvSourceMode, "remote")
	t.Setenv(EnvRemoteURL, "http://upstream:5000")
	t.Setenv(EnvCatalogPath, "/etc/uniformdash/catalog.yaml")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := SourceConfig{Mode: SourceRemote, RemoteURL: "http://upstream:5000", TimeoutSeconds: 30, Seed: 42, Employees: 500}
	if diff := cmp.Diff(want, cfg.Source); diff != "" {
		t.Fatalf("source (-want +got):\n%s", diff)
	}
	if cfg.Catalog.Path != "/etc/uniformdash/catalog.yaml" {
		t.Fatalf("catalog path want override got %q", cfg.Catalog.Path)
	}
}

func TestLoadConfigWithInfo_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"remote without url": "[source]\nmode = \"remote\"\n",
		"unknown mode":       "[source]\nmode = \"kafka\"\n",
		"bad port":           "[server]\nport = 70000\n",
		"bad toml":           "[server\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadConfig(writeFile(t, "config.toml", content)); err == nil {
				t.Fatalf("want error")
			}
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Fatalf("missing %s dir: %v", sub, err)
		}
	}
	if got, want := DBPath(cfg), filepath.Join(cfg.Data.DataDir, "uniformdash.db"); got != want {
		t.Fatalf("db path want=%q got=%q", want, got)
	}
}

func TestLoadCatalog_Default(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		c, err := LoadCatalog(path)
		if err != nil {
			t.Fatalf("load %q: %v", path, err)
		}
		if diff := cmp.Diff(model.DefaultCatalog(), c); diff != "" {
			t.Fatalf("catalog (-want +got):\n%s", diff)
		}
	}
}

func TestLoadCatalog_PartialOverride(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "catalog.yaml", `
departments: [Cargo, Security]
eligible_departments: [Security]
department_aliases:
  sec: Security
`)
	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Cargo", "Security"}, c.Departments); diff != "" {
		t.Fatalf("departments (-want +got):\n%s", diff)
	}
	if got := c.CanonicalDepartment("Sec"); got != "Security" {
		t.Fatalf("alias want=Security got=%q", got)
	}
	if !c.IsEligibleDepartment("Security") || c.IsEligibleDepartment("Cargo") {
		t.Fatalf("eligible departments not replaced: %v", c.EligibleDepartments)
	}
	if diff := cmp.Diff(model.DefaultCatalog().Months, c.Months); diff != "" {
		t.Fatalf("months must keep defaults (-want +got):\n%s", diff)
	}
}

func TestLoadCatalog_UnknownEligibleDepartment(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "catalog.yaml", "eligible_departments: [Payroll]\n")
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("want error for eligible department outside departments")
	}
}
