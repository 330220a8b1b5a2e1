package server

import (
	"io"
	"os"
)

// stdio bundles stdin/stdout into the ReadWriteCloser the jsonrpc2 stream
// wants. Close only closes stdout; stdin stays with the process.
type stdio struct{}

// Stdio returns the process's standard streams as a jsonrpc2 transport.
func Stdio() io.ReadWriteCloser { return stdio{} }

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return os.Stdout.Close() }
