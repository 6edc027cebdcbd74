package body

import (
	"io"
	"os"
)

// pathFile opens its file on the first Read and closes it once the content has
// been consumed.
type pathFile struct {
	path string
	f    *os.File
	done bool
}

// FileFromPath returns a File value for the file at path. The file is opened
// when its content is first read and closed at EOF or on error.
func FileFromPath(path string) File {
	return File{&pathFile{path: path}}
}

func (p *pathFile) Path() string { return p.path }

func (p *pathFile) Read(b []byte) (int, error) {
	if p.done {
		return 0, io.EOF
	}
	if p.f == nil {
		f, err := os.Open(p.path)
		if err != nil {
			p.done = true
			return 0, err
		}
		p.f = f
	}
	n, err := p.f.Read(b)
	if err != nil {
		p.f.Close()
		p.f = nil
		p.done = true
	}
	return n, err
}
