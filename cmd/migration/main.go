// Command migration applies the SQL migrations under db/migrations.
//
//	migration up              apply everything pending
//	migration down [n]        roll back n migrations (default 1)
//	migration goto <version>  migrate up or down to an exact version
//	migration force <version> overwrite the recorded version after manual repair
//	migration version         print the current version and dirty flag
//
// DB_URL selects the database; MIGRATIONS_DIR overrides the source path.
package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

var errUsage = errors.New("usage")

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if boolEnv("DB_DISABLE_PREPARED_BINARY_RESULT") {
		dbURL = withPreparedBinaryDisabled(dbURL)
	}

	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("close migrator: source=%v db=%v", srcErr, dbErr)
		}
	}()

	switch cmd := strings.ToLower(args[0]); cmd {
	case "up":
		if err := noChangeOK(m.Up()); err != nil {
			return err
		}
		log.Printf("migrations applied from %s", dir)
		return nil

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("down expects a positive step count, got %q", args[1])
			}
		}
		if err := noChangeOK(m.Steps(-steps)); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
		return nil

	case "goto", "migrate":
		target, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := noChangeOK(m.Migrate(uint(target))); err != nil {
			return err
		}
		log.Printf("migrated to version %d", target)
		return nil

	case "force":
		target, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(int(target)); err != nil {
			return fmt.Errorf("force version %d: %w", target, err)
		}
		log.Printf("forced version to %d", target)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
		return nil

	default:
		return errUsage
	}
}

func versionArg(args []string) (uint64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a version argument", args[0])
	}
	v, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[1], err)
	}
	return v, nil
}

func noChangeOK(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("nothing to migrate")
		return nil
	}
	return err
}

// migrationsDir prefers the env override, then the repo-relative path,
// then the path used inside the container image.
func migrationsDir() (string, error) {
	candidates := []string{
		os.Getenv("MIGRATIONS_DIR"),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no migrations directory found (set MIGRATIONS_DIR or run from the repo root)")
}

func withPreparedBinaryDisabled(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := parsed.Query()
	if q.Has("disable_prepared_binary_result") {
		return raw
	}
	q.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|goto <version>|force <version>|version>\n", filepath.Base(os.Args[0]))
}
