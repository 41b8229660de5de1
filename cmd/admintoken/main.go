// Command admintoken prints a fresh admin token and the admin panel URL.
//
//	admintoken -days 30 -base https://victoria-clinic.ru
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tbourn/victoria-clinic/internal/admintoken"
	"github.com/tbourn/victoria-clinic/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "admintoken:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fset := flag.NewFlagSet("admintoken", flag.ContinueOnError)
	days := fset.Int("days", cfg.AdminTokenDays, "token lifetime in days")
	base := fset.String("base", "http://localhost:"+cfg.Port, "site base URL")
	if err := fset.Parse(args); err != nil {
		return err
	}

	m, err := admintoken.New(cfg.JWTSecret)
	if err != nil {
		return err
	}
	tok, err := m.Issue(*days)
	if err != nil {
		return err
	}

	if cfg.UsesDefaultSecret() {
		fmt.Fprintln(out, "WARNING: JWT_SECRET is the development default")
	}
	fmt.Fprintf(out, "token: %s\n", tok)
	fmt.Fprintf(out, "url:   %s/%s/admin\n", strings.TrimRight(*base, "/"), tok)
	return nil
}
