// Command migration applies the oauth_sessions schema used when
// SESSION_STORE=postgres.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/dburl"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
)

const (
	sessionTable          = "oauth_sessions"
	defaultMigrationsPath = "db/migrations"
)

var errUsage = errors.New("usage")

// migrator is the slice of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Migrate(version uint) error
}

func main() {
	logger := logging.NewJSON(logging.LevelInfo).With("component", "migration", "table", sessionTable)
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		logger.Error("DB_URL is required")
		os.Exit(1)
	}
	dbURL = dburl.Normalize(dbURL, disablePreparedBinary())

	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		logger.Error("resolve migrations dir", "error", err)
		os.Exit(1)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		logger.Error("create migrator", "db", dburl.Redact(dbURL), "error", err)
		os.Exit(1)
	}

	logger = logger.With("db", dburl.Name(dbURL), "source", sourceURL)
	err = runCommand(m, os.Args[1:], os.Stdout, logger)
	closeMigrator(m, logger)

	switch {
	case errors.Is(err, errUsage):
		printUsage(os.Stderr)
		os.Exit(2)
	case err != nil:
		logger.Error("migration failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runCommand(m migrator, args []string, out io.Writer, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "up":
		changed, err := applied(m.Up())
		if err != nil {
			return err
		}
		logger.Info("session schema up to date", "changed", changed)
	case "down":
		steps, err := parseSteps(args[1:])
		if err != nil {
			return err
		}
		if _, err := applied(m.Steps(-steps)); err != nil {
			return err
		}
		logger.Info("session schema rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintf(out, "%s version: none\ndirty: false\n", sessionTable)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Fprintf(out, "%s version: %d\ndirty: %t\n", sessionTable, version, dirty)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version argument")
		}
		version, err := parseVersion(args[1])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Warn("session schema version forced", "version", version)
	case "goto", "migrate":
		if len(args) < 2 {
			return fmt.Errorf("goto requires a target version argument")
		}
		target, err := parseTarget(args[1])
		if err != nil {
			return err
		}
		if _, err := applied(m.Migrate(target)); err != nil {
			return err
		}
		logger.Info("session schema migrated", "version", target)
	default:
		return errUsage
	}

	return nil
}

// applied folds migrate.ErrNoChange into a successful no-op.
func applied(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	return err == nil, err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}

// resolveMigrationsDir prefers MIGRATIONS_DIR, then db/migrations under the
// working directory, then next to the binary.
func resolveMigrationsDir() (string, error) {
	candidates := []string{strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")), defaultMigrationsPath}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), defaultMigrationsPath))
	}
	return firstDir(candidates)
}

func firstDir(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no %s directory found (checked MIGRATIONS_DIR, ./%s, binary dir)", defaultMigrationsPath, defaultMigrationsPath)
}

func disablePreparedBinary() bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))
	return err == nil && value
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
	fmt.Fprintf(w, "applies the %s schema from MIGRATIONS_DIR or ./%s to DB_URL\n", sessionTable, defaultMigrationsPath)
}
