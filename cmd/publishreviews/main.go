// Command publishreviews publishes every review still waiting for moderation
// and prints the resulting counts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/config"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/services"
	"github.com/tbourn/victoria-clinic/internal/sysutil"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, true)

	db, err := repo.Open(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := run(context.Background(), db, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("publish reviews")
	}
}

func run(ctx context.Context, db *gorm.DB, out io.Writer) error {
	svc := &services.ReviewService{DB: db}
	n, st, err := svc.PublishAllPending(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "Нет неопубликованных отзывов")
	} else {
		fmt.Fprintf(out, "Опубликовано отзывов: %d\n", n)
	}
	fmt.Fprintf(out, "Всего отзывов: %d\n", st.Total)
	fmt.Fprintf(out, "Опубликовано: %d\n", st.Published)
	fmt.Fprintf(out, "Скрыто: %d\n", st.Unpublished)
	return nil
}
