// Package logfields holds the canonical slog attribute keys shared across
// packages, so that the same concept is always logged under the same name.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyJob      = "job"
	KeyBuildID  = "build_id"
	KeyStep     = "step"
	KeyTags     = "tags"
	KeyServer   = "server"
	KeyPath     = "path"
	KeyContext  = "context"
	KeyExitCode = "exit_code"
	KeySuccess  = "success"
	KeyDuration = "duration"
	KeyError    = "error"
)

func Job(name string) slog.Attr { return slog.String(KeyJob, name) }
func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Step(name string) slog.Attr { return slog.String(KeyStep, name) }
func Tags(tags []string) slog.Attr { return slog.Any(KeyTags, tags) }
func Server(url string) slog.Attr { return slog.String(KeyServer, url) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Context(kind string) slog.Attr { return slog.String(KeyContext, kind) }
func ExitCode(code int) slog.Attr { return slog.Int(KeyExitCode, code) }
func Success(ok bool) slog.Attr { return slog.Bool(KeySuccess, ok) }
func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
