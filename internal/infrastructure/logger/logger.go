package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

var verbose bool

func init() {
	SetOutput(os.Stdout)
}

// SetOutput redirects every level to w. Debug stays discarded unless verbose
// logging is on.
func SetOutput(w io.Writer) {
	Info = log.New(w, "INFO: ", logFlags)
	Error = log.New(w, "ERROR: ", logFlags)
	Warn = log.New(w, "WARN: ", logFlags)
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	if verbose {
		Debug.SetOutput(w)
	}
}

func SetVerbose(on bool) {
	verbose = on
	if on {
		Debug.SetOutput(Info.Writer())
		return
	}
	Debug.SetOutput(io.Discard)
}
