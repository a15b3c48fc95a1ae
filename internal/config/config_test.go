package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FRED_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Thresholds != (Thresholds{Delinquency: 3.0, Decline: 1.5}) {
		t.Errorf("default thresholds = %+v, want 3.0/1.5", cfg.Thresholds)
	}
	if cfg.DelinquencySeriesID != "DRCLACBS" || cfg.VehicleSeriesID != "CUSR0000SETA02" {
		t.Errorf("unexpected series ids: %s, %s", cfg.DelinquencySeriesID, cfg.VehicleSeriesID)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without FRED_API_KEY should fail")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Thresholds
		wantErr bool
	}{
		{
			name: "stressed profile",
			env:  map[string]string{"THRESHOLD_PROFILE": "stressed"},
			want: Thresholds{Delinquency: 7.0, Decline: 3.0},
		},
		{
			name: "explicit value beats profile",
			env:  map[string]string{"THRESHOLD_PROFILE": "stressed", "DECLINE_THRESHOLD": "2.5"},
			want: Thresholds{Delinquency: 7.0, Decline: 2.5},
		},
		{
			name: "malformed value keeps default",
			env:  map[string]string{"DELINQUENCY_THRESHOLD": "abc"},
			want: Thresholds{Delinquency: 3.0, Decline: 1.5},
		},
		{
			name:    "negative threshold rejected",
			env:     map[string]string{"DELINQUENCY_THRESHOLD": "-1"},
			wantErr: true,
		},
		{
			name:    "unknown profile rejected",
			env:     map[string]string{"THRESHOLD_PROFILE": "reckless"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FRED_API_KEY", "test-key")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Thresholds != tt.want {
				t.Errorf("Thresholds = %+v, want %+v", cfg.Thresholds, tt.want)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "absrisk.toml")
	content := `
profile = "stressed"
chart_points = 24
vehicle_series_id = "CUSR0000SETA01"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("FRED_API_KEY", "test-key")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CHART_POINTS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Thresholds != (Thresholds{Delinquency: 7.0, Decline: 3.0}) {
		t.Errorf("Thresholds = %+v, want stressed profile", cfg.Thresholds)
	}
	if cfg.VehicleSeriesID != "CUSR0000SETA01" {
		t.Errorf("VehicleSeriesID = %s, want value from file", cfg.VehicleSeriesID)
	}
	if cfg.ChartPoints != 12 {
		t.Errorf("ChartPoints = %d, environment should win over file", cfg.ChartPoints)
	}
}

func TestLoadConfigFileExplicitThresholds(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Thresholds
	}{
		{
			name:    "both pinned",
			content: "profile = \"stressed\"\n\n[thresholds]\ndelinquency = 5.0\ndecline = 2.0\n",
			want:    Thresholds{Delinquency: 5.0, Decline: 2.0},
		},
		{
			name:    "delinquency pinned",
			content: "profile = \"stressed\"\n\n[thresholds]\ndelinquency = 5.0\n",
			want:    Thresholds{Delinquency: 5.0, Decline: 3.0},
		},
		{
			name:    "decline pinned",
			content: "profile = \"stressed\"\n\n[thresholds]\ndecline = 2.0\n",
			want:    Thresholds{Delinquency: 7.0, Decline: 2.0},
		},
		{
			name:    "no profile",
			content: "[thresholds]\ndecline = 2.0\n",
			want:    Thresholds{Delinquency: 3.0, Decline: 2.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absrisk.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("writing config file: %v", err)
			}

			t.Setenv("FRED_API_KEY", "test-key")
			t.Setenv("CONFIG_FILE", path)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Thresholds != tt.want {
				t.Errorf("Thresholds = %+v, want %+v", cfg.Thresholds, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "FRED_API_KEY=file-key\nDELINQUENCY_THRESHOLD=4.0\nDECLINE_THRESHOLD=2.5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	t.Setenv("ENV_FILE", path)
	t.Setenv("FRED_API_KEY", "")
	t.Setenv("DECLINE_THRESHOLD", "1.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FREDAPIKey != "file-key" {
		t.Errorf("FREDAPIKey = %q, want value from env file", cfg.FREDAPIKey)
	}
	if cfg.Thresholds != (Thresholds{Delinquency: 4.0, Decline: 1.0}) {
		t.Errorf("Thresholds = %+v, want 4.0 from file and 1.0 from environment", cfg.Thresholds)
	}
	if _, set := os.LookupEnv("DELINQUENCY_THRESHOLD"); set {
		t.Error("Load() copied env file values into the process environment")
	}
}
