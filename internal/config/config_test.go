package config

import (
	"testing"

	"approval-backend/internal/domain/approval"
)

func TestParseEntityTables(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []EntityTable
	}{
		{"empty", "", nil},
		{"single", "activity=activities", []EntityTable{{Kind: "activity", Table: "activities"}}},
		{"sorted by kind", "location=locations,activity=activities", []EntityTable{
			{Kind: "activity", Table: "activities"},
			{Kind: "location", Table: "locations"},
		}},
		{"spaces and malformed pairs dropped", " activity=activities , bogus, =t, k= ", []EntityTable{
			{Kind: "activity", Table: "activities"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseEntityTables(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("APPROVAL_NOTIFY_ON_SUBMISSION", "false")
	t.Setenv("APPROVAL_AUTO_ARCHIVE_REJECTED_DAYS", "90")
	t.Setenv("APPROVAL_ITEMS_PER_PAGE", "not-a-number")
	t.Setenv("APPROVAL_ENTITY_TABLES", "activity=activities")

	cfg := Load()
	if cfg.Approval.NotifyOnSubmission {
		t.Error("NotifyOnSubmission override ignored")
	}
	if cfg.Approval.AutoArchiveRejectedDays != 90 {
		t.Errorf("AutoArchiveRejectedDays = %d", cfg.Approval.AutoArchiveRejectedDays)
	}
	if cfg.Approval.ItemsPerPage != approval.DefaultSettings().ItemsPerPage {
		t.Errorf("garbage env must fall back to default, got %d", cfg.Approval.ItemsPerPage)
	}
	if len(cfg.EntityTables) != 1 || cfg.EntityTables[0].Table != "activities" {
		t.Errorf("entity tables = %v", cfg.EntityTables)
	}
	// untouched settings keep their defaults
	if !cfg.Approval.NotifyOnApproval {
		t.Error("NotifyOnApproval default lost")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{AppPort: "8080", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "approvals", MySQLUser: "u"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := *cfg
	bad.MySQLPort = "notaport"
	if err := bad.Validate(); err == nil {
		t.Error("invalid port accepted")
	}
	bad = *cfg
	bad.MySQLHost = ""
	if err := bad.Validate(); err == nil {
		t.Error("missing host accepted")
	}
	bad = *cfg
	bad.AppPort = ""
	if err := bad.Validate(); err == nil {
		t.Error("missing app port accepted")
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{MySQLHost: "db", MySQLPort: "3306", MySQLDB: "approvals", MySQLUser: "app", MySQLPass: "secret"}
	want := "app:secret@tcp(db:3306)/approvals?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}
