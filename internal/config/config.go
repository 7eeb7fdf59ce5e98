package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"approval-backend/internal/domain/approval"
)

// EntityTable maps one registered entity kind to its backing table.
type EntityTable struct {
	Kind  approval.EntityKind
	Table string
}

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs      int
	CountCacheTTLSecs int

	// EntityTables declares the attached kinds at startup, e.g.
	// APPROVAL_ENTITY_TABLES="activity=activities,location=locations".
	EntityTables []EntityTable

	// Approval is the process-wide settings value. Loaded once here and
	// passed into the components that need it.
	Approval approval.Settings
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	settings := approval.DefaultSettings()
	settings.NotifyOnSubmission = getenvBool("APPROVAL_NOTIFY_ON_SUBMISSION", settings.NotifyOnSubmission)
	settings.NotifyOnApproval = getenvBool("APPROVAL_NOTIFY_ON_APPROVAL", settings.NotifyOnApproval)
	settings.NotifyOnRejection = getenvBool("APPROVAL_NOTIFY_ON_REJECTION", settings.NotifyOnRejection)
	settings.AutoArchiveRejectedDays = getenvInt("APPROVAL_AUTO_ARCHIVE_REJECTED_DAYS", settings.AutoArchiveRejectedDays)
	settings.ReviewSLAHours = getenvInt("APPROVAL_REVIEW_SLA_HOURS", settings.ReviewSLAHours)
	settings.ItemsPerPage = getenvInt("APPROVAL_ITEMS_PER_PAGE", settings.ItemsPerPage)
	settings.ShowArchivedInSearch = getenvBool("APPROVAL_SHOW_ARCHIVED_IN_SEARCH", settings.ShowArchivedInSearch)

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "approvals"),
		MySQLUser: getenv("MYSQL_USER", "approvals"),
		MySQLPass: getenv("MYSQL_PASS", "approvals"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:      getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		CountCacheTTLSecs: getenvInt("COUNT_CACHE_TTL_SECONDS", 30),

		EntityTables: parseEntityTables(os.Getenv("APPROVAL_ENTITY_TABLES")),

		Approval: settings,
	}
}

// parseEntityTables parses "kind=table,kind=table". Malformed pairs are
// dropped; output order is stable.
func parseEntityTables(raw string) []EntityTable {
	var out []EntityTable
	for _, pair := range strings.Split(raw, ",") {
		kind, table, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || kind == "" || table == "" {
			continue
		}
		out = append(out, EntityTable{Kind: approval.EntityKind(kind), Table: table})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
