// Command enginectl opens a database directory and runs SQL statements
// against it from the command line, for ad hoc inspection and scripting.
package main

import (
	"fmt"
	"os"

	"github.com/gopherdb/simpledb/engine"
	"github.com/gopherdb/simpledb/enginelog"
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/types"
	"github.com/spf13/cobra"
	"strings"
)

var rootCmd = &cobra.Command{
	Use:   "enginectl",
	Short: "enginectl - inspect and query a simpledb database directory",
}

var dbDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDir, "dir", "./simpledb-data", "database directory")
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(explainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "enginectl: %v\n", err)
		os.Exit(1)
	}
}

func openConn() (*engine.Connection, error) {
	db, err := engine.OpenDefault(dbDir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbDir, err)
	}
	return db.NewConnection(), nil
}

var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "run an insert, delete, modify, or create statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		stmt := conn.CreateStatement(args[0])
		rowsAffected, err := stmt.ExecuteUpdate()
		if err != nil {
			return err
		}
		if err := conn.Commit(); err != nil {
			return err
		}
		enginelog.Logger().Info().Int("rows", rowsAffected).Msg("statement executed")
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "run a select statement and print its rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		stmt := conn.CreateStatement(args[0])
		rs, err := stmt.ExecuteQuery()
		if err != nil {
			return err
		}
		defer rs.Close()

		return printRows(rs)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain [sql]",
	Short: "print the operator tree a select statement would run as",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		stmt := conn.CreateStatement(args[0])
		repr, err := stmt.ExplainPlan()
		if err != nil {
			return err
		}
		printRepr(repr, 0)
		return conn.Rollback()
	},
}

func printRows(rs *engine.ResultSet) error {
	md := rs.GetMetaData()
	columnCount := md.ColumnCount()

	for i := 1; i <= columnCount; i++ {
		fmt.Printf("%-*s", md.ColumnDisplaySize(i), md.ColumnName(i))
	}
	fmt.Println()

	for {
		hasNext, err := rs.Next()
		if err != nil {
			return err
		}
		if !hasNext {
			return nil
		}
		for i := 1; i <= columnCount; i++ {
			fieldName := md.ColumnName(i)
			width := md.ColumnDisplaySize(i)
			if md.ColumnType(i) == types.Varchar {
				val, err := rs.GetString(fieldName)
				if err != nil {
					return err
				}
				fmt.Printf("%-*s", width, val)
			} else {
				val, err := rs.GetInt32(fieldName)
				if err != nil {
					return err
				}
				fmt.Printf("%-*d", width, val)
			}
		}
		fmt.Println()
	}
}

func printRepr(repr *plan.Repr, depth int) {
	fmt.Printf("%s%s (reads=%d)\n", strings.Repeat("  ", depth), repr.Operation, repr.Reads)
	for _, sub := range repr.SubReprs {
		printRepr(sub, depth+1)
	}
}
