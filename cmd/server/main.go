package main

import (
	"os"

	"github.com/jrsteele09/go-blog-server/internal/cmd"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Err(err).Msg("blog-server failed")
		os.Exit(1)
	}
}
