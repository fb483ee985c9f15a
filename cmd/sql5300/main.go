// Command sql5300 is the interactive SQL shell: it opens a page-store
// environment and reads statements from stdin until "quit".
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/pagestore"
	"github.com/jpl-au/heapdb/sqlexec"
	"github.com/jpl-au/heapdb/sqlparse"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s dbenvpath\n", os.Args[0])
		os.Exit(1)
	}

	env, err := pagestore.OpenEnvironment(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open database environment at %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer env.Close()
	fmt.Printf("(sql5300: running with database environment at %s)\n", env.Path())

	executor, err := sqlexec.Open(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open catalog: %v\n", err)
		os.Exit(1)
	}
	defer executor.Close()

	repl(os.Stdin, os.Stdout, env, executor)
}

func repl(in *os.File, out *os.File, env *pagestore.Environment, executor *sqlexec.Executor) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "SQL> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}
		if line == "test" {
			if err := heap.SelfTest(env); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "heap storage tests passed")
			continue
		}

		stmt, err := sqlparse.Parse(line)
		if err != nil {
			fmt.Fprintf(out, "invalid SQL: %s\n%v\n", line, err)
			continue
		}
		fmt.Fprintln(out, sqlparse.Unparse(stmt))

		result, err := executor.Execute(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, result.String())
	}
}
