package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/odbcadapter/adapter"
	"github.com/syssam/odbcadapter/config"
	"github.com/syssam/odbcadapter/dialect/sql"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = cellStyle.Faint(true)
)

// runRewrite reads one statement per line from each file, or stdin, and
// prints what it executes as. Files are read concurrently and printed in
// argument order.
func runRewrite(ctx context.Context, cfg *config.Config, _ *slog.Logger, args []string) error {
	rw := sql.NewRewriter(cfg.Rewrite.Flags())
	if len(args) == 0 {
		out, err := rewriteAll(rw, os.Stdin)
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	outs := make([]string, len(args))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range args {
		g.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()
			out, err := rewriteAll(rw, f)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, out := range outs {
		if _, err := io.WriteString(os.Stdout, out); err != nil {
			return err
		}
	}
	return nil
}

func rewriteAll(rw *sql.Rewriter, r io.Reader) (string, error) {
	var (
		b  strings.Builder
		sc = bufio.NewScanner(r)
	)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		for _, stmt := range rw.Rewrite(line) {
			b.WriteString(stmt)
			b.WriteByte('\n')
		}
	}
	return b.String(), sc.Err()
}

func runExec(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("exec: missing statement")
	}
	return withAdapter(ctx, cfg, logger, func(a *adapter.Adapter) error {
		n, err := a.Exec(ctx, args[0], binds(args[1:])...)
		if err != nil {
			return err
		}
		fmt.Printf("%d row(s) affected\n", n)
		return nil
	})
}

func runQuery(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("query: missing statement")
	}
	return withAdapter(ctx, cfg, logger, func(a *adapter.Adapter) error {
		rs, err := a.Query(ctx, args[0], binds(args[1:])...)
		if err != nil {
			return err
		}
		fmt.Println(renderResult(rs))
		fmt.Printf("%d row(s)\n", rs.Len())
		return nil
	})
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("migrate: expect one operations file")
	}
	ops, err := readOps(args[0])
	if err != nil {
		return err
	}
	return withAdapter(ctx, cfg, logger, func(a *adapter.Adapter) error {
		if !a.SupportsMigrations() {
			return fmt.Errorf("migrate: dialect %s does not support migrations", a.Dialect())
		}
		if err := a.Migrate(ctx, ops...); err != nil {
			return err
		}
		fmt.Printf("%d operation(s) applied\n", len(ops))
		return nil
	})
}

func runPlan(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("plan: expect one operations file")
	}
	ops, err := readOps(args[0])
	if err != nil {
		return err
	}
	return withAdapter(ctx, cfg, logger, func(a *adapter.Adapter) error {
		stmts, err := a.Migrator.Plan(ctx, ops...)
		if err != nil {
			return err
		}
		for _, s := range stmts {
			fmt.Println(s)
		}
		return nil
	})
}

func runConfig(_ context.Context, cfg *config.Config, _ *slog.Logger, _ []string) error {
	return config.Write(os.Stdout, cfg)
}

func withAdapter(ctx context.Context, cfg *config.Config, logger *slog.Logger, fn func(*adapter.Adapter) error) (err error) {
	a, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	if err := fn(a); err != nil {
		return err
	}
	if a.Stats != nil {
		logger.Info("statistics", "summary", a.Stats.Stats().String())
	}
	return nil
}

// binds turns command line arguments into bind values. "NULL" is nil.
func binds(args []string) []any {
	vs := make([]any, len(args))
	for i, a := range args {
		if a != "NULL" {
			vs[i] = a
		}
	}
	return vs
}

func renderResult(rs *sql.ResultSet) string {
	rows := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = cellString(v)
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(rs.Names...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rs.Rows) && col < len(rs.Rows[row]) && rs.Rows[row][col] == nil {
				return nullStyle
			}
			return cellStyle
		}).
		String()
}

func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
