package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// logPathLength is the number of path items to caller
// 1 - file.go:line
// 2 - folder/file.go:line
const logPathLength = 2

// NewContextWithLogger installs the process logger and returns a context
// carrying it together with a func that flushes pending messages.
// jsonOutput switches from the console format to one JSON object per line.
func NewContextWithLogger(ctx context.Context, debug, jsonOutput bool) (context.Context, func()) {
	zerolog.CallerMarshalFunc = shortCaller

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Non-blocking ring buffer, 1000 messages, polled every 5ms
	wr := diode.NewWriter(os.Stdout, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Printf("Logger Dropped %d messages\n", missed)
	})

	logger := New(wr, jsonOutput)
	log.Logger = logger

	return log.With().Logger().WithContext(ctx), func() {
		wr.Close()
	}
}

// New builds a logger writing to w without touching global state.
func New(w io.Writer, jsonOutput bool) zerolog.Logger {
	out := w
	if !jsonOutput {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.DateTime,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.CallerFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

func shortCaller(pc uintptr, file string, line int) string {
	pathItems := strings.Split(file, "/")
	if len(pathItems) > logPathLength {
		file = strings.Join(pathItems[len(pathItems)-logPathLength:], "/")
	}
	return file + ":" + strconv.Itoa(line)
}
