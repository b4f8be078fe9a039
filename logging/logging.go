package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"io"
)

func Setup(w io.Writer, debug bool) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}
