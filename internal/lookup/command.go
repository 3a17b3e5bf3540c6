// Package lookup implements the "lookup" subcommand which displays one callsign's QRZ profile.
package lookup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/n1jfu/qrz"
	"github.com/n1jfu/qrz/internal/config"
)

type Command struct {
	Credentials string `short:"c" long:"credentials" description:"path to the QRZ credentials file" default-mask:"~/.qrz"`
	Args        struct {
		Callsign string `positional-arg-name:"callsign" description:"the callsign to look up" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	creds, err := config.Load(c.Credentials)
	if err != nil {
		return err
	}

	client, err := qrz.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}

	record, err := client.Lookup(ctx, strings.ToUpper(strings.TrimSpace(c.Args.Callsign)))
	if err != nil {
		return err
	}

	printTable(os.Stdout, record)
	return nil
}
