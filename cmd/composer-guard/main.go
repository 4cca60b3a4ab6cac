package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flarebyte/composer-guard/cmd/composer-guard/root"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		// Tool output is printed as-is; it is usually multi-line.
		msg := strings.TrimRight(err.Error(), "\n")
		if strings.TrimSpace(msg) == "" {
			msg = "error"
		}
		_, _ = os.Stderr.WriteString(msg + "\n")
		code := 1
		if ec, ok := err.(exitCoder); ok {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
