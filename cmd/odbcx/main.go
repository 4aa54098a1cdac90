// Command odbcx rewrites, executes and migrates SQL for a dialect.
//
//	odbcx [-config file] [-dialect dm] rewrite [file...]
//	odbcx exec "ALTER TABLE t MODIFY c int NOT NULL"
//	odbcx query "SELECT * FROM t"
//	odbcx migrate ops.yaml
//	odbcx plan ops.yaml
//	odbcx config
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/odbcadapter/config"
)

type command struct {
	usage string
	run   func(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error
}

var commands = map[string]command{
	"rewrite": {"rewrite [file...]  print the statements each input is executed as", runRewrite},
	"exec":    {"exec SQL [arg...]  execute a statement and print rows affected", runExec},
	"query":   {"query SQL [arg...] execute a statement and print its rows", runQuery},
	"migrate": {"migrate FILE       apply the operations in a YAML file", runMigrate},
	"plan":    {"plan FILE          print the statements migrate would execute", runPlan},
	"config":  {"config             print the effective configuration", runConfig},
}

func main() {
	var (
		path     = flag.String("config", "", "configuration file (default ./odbcx.yaml or ~/.odbcx/odbcx.yaml)")
		driver   = flag.String("driver", "", "database/sql driver name: mysql, pgx, postgres, sqlite")
		dsn      = flag.String("dsn", "", "data source name")
		dialect  = flag.String("dialect", "", "dialect: dm or null")
		prepared = flag.String("prepared", "", "override prepared statements: true or false")
		verbose  = flag.Bool("v", false, "log every executed statement")
	)
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fatal(err)
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *dialect != "" {
		cfg.Dialect = *dialect
	}
	if *prepared != "" {
		on, err := parsePrepared(*prepared)
		if err != nil {
			fatal(err)
		}
		cfg.PreparedStatements = &on
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	level, err := cfg.Level()
	if err != nil {
		fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "odbcx: unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.run(ctx, cfg, logger, args[1:]); err != nil {
		stop()
		fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: odbcx [flags] command [args]\n\ncommands:\n")
	for _, name := range []string{"rewrite", "exec", "query", "migrate", "plan", "config"} {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "\nflags:\n")
	flag.PrintDefaults()
}

// parsePrepared accepts the values of strconv.ParseBool.
func parsePrepared(s string) (bool, error) {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid -prepared value %q: expect true or false", s)
	}
	return on, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "odbcx: %v\n", err)
	os.Exit(1)
}
