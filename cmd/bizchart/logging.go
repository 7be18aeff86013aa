package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/bizcharts/internal/logger"
)

func newLogger(flags *rootFlags, w io.Writer) (*logger.Logger, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}

	var human bool
	switch strings.ToLower(flags.logFormat) {
	case "", "auto":
		human = isTerminal(w)
	case "console":
		human = true
	case "json":
		human = false
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, json or console)", flags.logFormat)
	}

	return logger.New(logger.Options{Level: level, HumanReadable: human, Writer: w})
}

func isTerminal(w any) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
