package buildctx

import (
	"strconv"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// LogError logs err and counts it as a build error.
func (b *Build) LogError(err error) {
	b.errors.Add(1)
	b.svc.Logger.Error(err)
	b.toVertex(domain.LogLevelError, err.Error())
}

// LogErrorFile logs a compiler style error located in file, formatted as
// "file(line,col):code: msg" with file relative to the source directory.
// Zero line, col and empty code are left out. Without a file only msg is logged.
func (b *Build) LogErrorFile(file string, line, col int, code, msg string) {
	if file == "" {
		b.LogError(zerr.New(msg))
		return
	}

	loc := fs.Rel(b.SrcPath, file)
	if line > 0 {
		loc += "(" + strconv.Itoa(line)
		if col > 0 {
			loc += "," + strconv.Itoa(col)
		}
		loc += ")"
	}
	if code != "" {
		loc += ":" + code
	}
	b.LogError(zerr.New(loc + ": " + msg))
}

// LogWarning logs a problem that does not fail the build.
func (b *Build) LogWarning(msg string) {
	b.svc.Logger.Warn(msg)
	b.toVertex(domain.LogLevelWarn, msg)
}

// LogDebug logs a diagnostic message of task when diagnostic output is enabled.
func (b *Build) LogDebug(task, msg string) {
	if !b.DiagOutput {
		return
	}
	b.svc.Logger.Info("Debug " + task + ": " + msg)
	b.toVertex(domain.LogLevelDebug, msg)
}

// LogBuildFile records that task regenerates fn.
func (b *Build) LogBuildFile(task, fn string) {
	b.built.Add(1)
	b.total.Add(1)
	if !b.DiagOutput {
		return
	}
	msg := "Build " + task + ": " + fs.Rel(b.DstPath, fn)
	b.svc.Logger.Info(msg)
	b.toVertex(domain.LogLevelInfo, msg)
}

func (b *Build) toVertex(level domain.LogLevel, msg string) {
	b.mu.Lock()
	v := b.vertex
	b.mu.Unlock()

	if v != nil {
		v.Log(level, msg)
	}
}

func (b *Build) setVertex(v ports.Vertex) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vertex = v
}
