package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worksheet.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `worksheet:
  title: 6th Day homework
  name: Farhan Shaik
  level: 5th Seniors
  order: reverse
  operation: division
  tables:
    - number: "20"
      startingNumber: "1"
  sums:
    - value: "2,-2,12,-27"
output: out
qrCode: true
calendar:
  province: BY
  christmasBreak: false
smtp:
  host: smtp.example.com
  port: 587
  username: tutor@example.com
  password: secret
email:
  from: tutor@example.com
  to: parent@example.com
`)

		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}

		ws := cfg.Worksheet
		if ws.Title != "6th Day homework" || ws.Name != "Farhan Shaik" || ws.Level != "5th Seniors" {
			t.Errorf("unexpected meta: %+v", ws.WorksheetMeta)
		}
		if ws.Order != OrderReverse || ws.Operation != OperationDivision {
			t.Errorf("modes = %s/%s, want reverse/division", ws.Order, ws.Operation)
		}
		if len(ws.Tables) != 1 || ws.Tables[0].StartingNumber != "1" {
			t.Errorf("unexpected tables: %+v", ws.Tables)
		}
		if len(ws.Sums) != 1 || ws.Sums[0].Value != "2,-2,12,-27" {
			t.Errorf("unexpected sums: %+v", ws.Sums)
		}
		if cfg.Output != "out" || !cfg.QRCode {
			t.Errorf("output/qrCode = %q/%v", cfg.Output, cfg.QRCode)
		}
		if cfg.Calendar.Province != "BY" || cfg.Calendar.ChristmasBreakEnabled() {
			t.Errorf("unexpected calendar: %+v", cfg.Calendar)
		}
		if cfg.SMTP.Port != 587 || cfg.Email.To != "parent@example.com" {
			t.Errorf("unexpected mail settings: %+v %+v", cfg.SMTP, cfg.Email)
		}
		if err := cfg.checkMail(); err != nil {
			t.Errorf("checkMail() error = %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, `worksheet:
  title: Drill
  name: A
  level: B
`)

		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Worksheet.Order != OrderStraight {
			t.Errorf("Order = %q, want straight", cfg.Worksheet.Order)
		}
		if cfg.Worksheet.Operation != OperationMultiplication {
			t.Errorf("Operation = %q, want multiplication", cfg.Worksheet.Operation)
		}
		if cfg.Output != defaultOutputDir {
			t.Errorf("Output = %q, want %q", cfg.Output, defaultOutputDir)
		}
		if !cfg.Calendar.ChristmasBreakEnabled() {
			t.Error("expected ChristmasBreakEnabled() to be true by default")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadConfig("/nonexistent/worksheet.yaml"); err == nil {
			t.Error("loadConfig() expected error for missing file")
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		path := writeConfig(t, "{{invalid yaml")
		if _, err := loadConfig(path); err == nil {
			t.Error("loadConfig() expected error for invalid YAML")
		}
	})
}

func TestCheckMail(t *testing.T) {
	cfg := &Config{}
	err := cfg.checkMail()
	if err == nil {
		t.Fatal("checkMail() expected error for empty config")
	}
	for _, want := range []string{"smtp.host", "email.from", "email.to"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("checkMail() error %q does not mention %s", err, want)
		}
	}
}
