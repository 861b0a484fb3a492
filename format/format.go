// Package format ties the CSS parser and formatter together.
package format

import (
	"fmt"
	"io"

	"mibk.dev/cssfmt/naive"
)

// Pipe reads CSS source code from in, formats it, and writes the result to out.
// Declarations are grouped by spec; the output can be tweaked using opts.
// (See [naive.Options].) The filename argument is used to set the “filename”
// in error messages.
func Pipe(filename string, out io.Writer, in io.Reader, spec []naive.Category, opts naive.Options) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("%s: %v", filename, err)
	}
	return naive.Fprint(out, naive.Parse(string(src)), spec, opts)
}

// Source formats CSS source code.
func Source(src []byte, spec []naive.Category, opts naive.Options) []byte {
	return []byte(naive.Format(naive.Parse(string(src)), spec, opts))
}
