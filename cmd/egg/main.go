// Command egg runs Egg programs and hosts an interactive REPL.
//
//	egg run FILE...    evaluate the given files as one program (joined in order)
//	egg repl           interactive session with history
//	egg version        print the interpreter version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	egg "github.com/raphealolams/egg"
)

const (
	historyFile = ".egg_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Egg %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", egg.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(egg.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  egg run FILE...   evaluate files as one program
  egg repl          start an interactive session
  egg version       print the interpreter version
`)
}

func cmdRun(paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "egg run: no input files")
		return 2
	}
	parts := make([]string, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		parts[i] = string(data)
	}
	src := strings.Join(parts, "\n")

	ip := egg.NewInterpreter()
	if _, err := ip.Run(parts...); err != nil {
		name := paths[0]
		if len(paths) > 1 {
			name = strings.Join(paths, "+")
		}
		fmt.Fprintln(os.Stderr, red(egg.WrapErrorWithName(err, name, src).Error()))
		return 1
	}
	return 0
}

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := egg.NewInterpreter()

	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(egg.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		fmt.Println(blue(egg.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readBalanced keeps prompting with the continuation prompt while the
// input has unclosed parentheses, so applications can span lines.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var buf strings.Builder
	p := prompt
	for {
		line, err := ln.Prompt(p)
		if err != nil {
			if err == liner.ErrPromptAborted {
				return "", true // Ctrl+C: drop the pending input
			}
			return "", false // Ctrl+D / read error
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		if openParens(buf.String()) <= 0 {
			return buf.String(), true
		}
		p = cont
	}
}

// openParens counts unclosed '(' outside strings and comments.
func openParens(src string) int {
	depth := 0
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr {
			if c == '"' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}
