// Package zipcode implements the "zipcode" subcommand which finds all amateur radio operators registered in a zip
// code and ranks them by QRZ profile views.
package zipcode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/n1jfu/qrz"
	"github.com/n1jfu/qrz/internal/config"
	"github.com/n1jfu/qrz/uls"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

type Command struct {
	Credentials string        `short:"c" long:"credentials" description:"path to the QRZ credentials file" default-mask:"~/.qrz"`
	Output      string        `short:"o" long:"output" description:"output CSV file; defaults to ham_operators_<zipcode>.csv" default-mask:"-"`
	CacheMaxAge time.Duration `long:"cache-max-age" description:"how long the cached FCC entity file remains valid" default:"168h"`
	Args        struct {
		ZipCode string `positional-arg-name:"zipcode" description:"the 5-digit zip code to search" required:"yes"`
	} `positional-args:"yes"`

	logger *log.Logger
}

// lookupInterval spaces out QRZ lookups so a large zip code does not hammer the API.
const lookupInterval = 100 * time.Millisecond

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	zipCode := strings.TrimSpace(c.Args.ZipCode)
	output := c.Output
	if output == "" {
		output = fmt.Sprintf("ham_operators_%s.csv", zipCode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c.logger = log.New(os.Stderr, "", 0)

	creds, err := config.Load(c.Credentials)
	if err != nil {
		return err
	}

	c.logger.Printf("authenticating with QRZ.com as %s", creds.Username)
	client, err := qrz.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}

	fcc := &uls.Client{MaxAge: c.CacheMaxAge, Logger: c.logger}
	data, err := fcc.EntityFile(ctx)
	if err != nil {
		return err
	}

	callSigns := uls.CallSignsByZip(data, zipCode)
	if len(callSigns) == 0 {
		c.logger.Printf("no amateur radio operators found for zip code %s", zipCode)
		return nil
	}
	c.logger.Printf("found %d operator(s) in zip code %s", len(callSigns), zipCode)

	operators, err := c.lookupAll(ctx, client, callSigns)
	if err != nil {
		return err
	}

	if err = writeCSV(output, operators); err != nil {
		return err
	}

	c.logger.Printf(`done; %d record(s) written to "%s"`, len(operators), output)
	return nil
}

// lookupAll fetches every callsign's profile from QRZ, one at a time behind a rate limiter.
//
// Callsigns that QRZ does not know are skipped; any other error aborts the run.
func (c *Command) lookupAll(ctx context.Context, client *qrz.Client, callSigns []string) ([]operator, error) {
	var (
		operators []operator
		seen      = make(map[string]bool)
		limiter   = rate.NewLimiter(rate.Every(lookupInterval), 1)
		bar       = progressbar.Default(int64(len(callSigns)), "looking up QRZ profiles")
	)

	for _, callSign := range callSigns {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		record, err := client.Lookup(ctx, callSign)
		switch {
		case err == nil:
		case isNotFound(err):
			_ = bar.Add(1)
			continue
		default:
			return nil, err
		}

		if call := record.Call; call != "" && !seen[call] {
			seen[call] = true
			operators = append(operators, operator{CallSign: call, Views: parseViews(record.ProfileViews)})
		}

		_ = bar.Add(1)
	}
	_ = bar.Close()

	return operators, nil
}

func isNotFound(err error) bool {
	var le *qrz.LookupError
	return errors.As(err, &le)
}
