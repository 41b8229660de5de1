// Command placeholders renders stand-in clinic and specialist photos into
// the images directory served under /images.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/victoria-clinic/internal/placeholder"
	"github.com/tbourn/victoria-clinic/internal/sysutil"
)

func main() {
	out := flag.String("out", sysutil.FirstNonEmpty(os.Getenv("IMAGES_DIR"), "static/images"), "output directory")
	flag.Parse()

	sysutil.SetupLogger(os.Stderr, "info", true)

	paths, err := placeholder.WriteAll(*out, placeholder.Defaults)
	for _, p := range paths {
		log.Info().Str("file", p).Msg("created")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("render placeholders")
	}
	log.Info().Int("count", len(paths)).Msg("done")
}
