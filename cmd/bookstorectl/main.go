// Command bookstorectl runs operator tasks against the store database. Destructive
// commands such as reset are only reachable from here, never over HTTP.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/config"
	"bookstore/internal/db"
	"bookstore/internal/logger"
	"bookstore/internal/seed"
	"bookstore/models"
	"bookstore/repository"
)

const usage = `usage: bookstorectl [-db PATH] <command> [flags]

commands:
  migrate            apply pending schema migrations
  seed               create the admin account and load the demo catalog into an empty store
  reset -yes         drop every table, migrate again and seed (all data is lost)
  rollback           revert the most recent migration
  promote -user NAME [-role admin|user]
                     change the role of an existing account
  passwd -user NAME -password PW
                     set a new password for an existing account
  users              list accounts and their roles
  version            print the applied schema version
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bookstorectl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Service: "bookstorectl", Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	global := flag.NewFlagSet("bookstorectl", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	dbPath := global.String("db", cfg.Database.Path, "SQLite database path")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}
	cmd, rest := global.Arg(0), global.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := db.Connect(*dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *dbPath, err)
	}
	defer d.Close()

	switch cmd {
	case "migrate":
		if err := db.Migrate(d); err != nil {
			return err
		}
		return printVersion(out, d)

	case "seed":
		if err := db.Migrate(d); err != nil {
			return err
		}
		res, err := seed.Seed(ctx, d, cfg.App.AdminPassword)
		if err != nil {
			return err
		}
		log.Info("seeded", "admin_created", res.AdminCreated, "books_added", res.BooksAdded)
		fmt.Fprintf(out, "admin created: %t, books added: %d\n", res.AdminCreated, res.BooksAdded)
		return nil

	case "reset":
		fs := flag.NewFlagSet("reset", flag.ContinueOnError)
		fs.SetOutput(out)
		yes := fs.Bool("yes", false, "confirm that all data will be deleted")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if !*yes {
			return errors.New("reset deletes all data; pass -yes to confirm")
		}
		res, err := seed.Reset(ctx, d, cfg.App.AdminPassword)
		if err != nil {
			return err
		}
		log.Warn("store reset", "db", *dbPath, "books_added", res.BooksAdded)
		fmt.Fprintf(out, "store reset: %d sample books, admin %q\n", res.BooksAdded, seed.AdminUsername)
		return nil

	case "rollback":
		rolled, err := db.RollbackLast(d)
		if err != nil {
			return err
		}
		if !rolled {
			fmt.Fprintln(out, "nothing to roll back")
			return nil
		}
		return printVersion(out, d)

	case "promote":
		fs := flag.NewFlagSet("promote", flag.ContinueOnError)
		fs.SetOutput(out)
		user := fs.String("user", "", "username to change")
		role := fs.String("role", models.RoleAdmin, "new role (admin or user)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return promote(ctx, out, d, *user, *role)

	case "passwd":
		fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
		fs.SetOutput(out)
		user := fs.String("user", "", "username to change")
		password := fs.String("password", "", "new password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return setPassword(ctx, out, d, *user, *password)

	case "users":
		list, err := repository.NewUserRepository(d).List(ctx, 1000, 0)
		if err != nil {
			return err
		}
		for _, u := range list {
			fmt.Fprintf(out, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
		}
		return nil

	case "version":
		return printVersion(out, d)

	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func promote(ctx context.Context, out io.Writer, d *sql.DB, username, role string) error {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if username == "" {
		return errors.New("promote: -user is required")
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return fmt.Errorf("promote: unknown role %q", role)
	}
	err := repository.NewUserRepository(d).UpdateRoleByUsername(ctx, username, role)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("promote: user %q not found", username)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now %s\n", username, role)
	return nil
}

func setPassword(ctx context.Context, out io.Writer, d *sql.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("passwd: -user and -password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	err = repository.NewUserRepository(d).UpdatePasswordHash(ctx, username, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("passwd: user %q not found", username)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "password updated for %s\n", username)
	return nil
}

func printVersion(out io.Writer, d *sql.DB) error {
	v, err := db.Version(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version: %d\n", v)
	return nil
}
