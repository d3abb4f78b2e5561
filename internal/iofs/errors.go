package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// CreateDirError is returned when a directory cannot be created.
func CreateDirError(dir string, err error) error {
	msg := "Cannot create %s"
	vars := []any{dir}
	return newFSError(errcode.CreateDirError, msg, vars,
		fmt.Errorf("cannot create directory: %w", err))
}

// CopyFileError is returned when the config template cannot be written.
func CopyFileError(file string, err error) error {
	msg := "Cannot copy config file to %s"
	vars := []any{file}
	return newFSError(errcode.CopyFileError, msg, vars,
		fmt.Errorf("cannot copy file: %w", err))
}

// ReadFileError is returned when a file cannot be opened or parsed.
func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	return newFSError(errcode.ReadFileError, msg, vars,
		fmt.Errorf("cannot read %s: %w", path, err))
}

// WriteFileError is returned when an output file cannot be written.
func WriteFileError(path string, err error) error {
	msg := "Cannot write <em>%s</em>"
	vars := []any{path}
	return newFSError(errcode.ReportWriteError, msg, vars,
		fmt.Errorf("cannot write %s: %w", path, err))
}

func newFSError(
	code gn.ErrorCode,
	msg string,
	vars []any,
	err error,
) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
