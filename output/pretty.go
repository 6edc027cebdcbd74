package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"code.cloudfoundry.org/bytefmt"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	Proto          aurora.Color
	Status         aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
	Note           aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg | aurora.UnderlineFm,
	Proto:          aurora.BlueFg,
	Status:         aurora.YellowFg | aurora.BoldFm,
	FieldName:      aurora.WhiteFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.WhiteFg,
	Note:           aurora.MagentaFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
	}
}

func (p *PrettyPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(proto, p.headerPalette.Proto),
		p.aurora.Colorize(status, p.headerPalette.Status))
	return nil
}

func (p *PrettyPrinter) PrintRequestLine(req *http.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method, p.headerPalette.Method),
		p.aurora.Colorize(req.URL, p.headerPalette.URL),
		p.aurora.Colorize(req.Proto, p.headerPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	var names []string
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := header[name]
		for _, value := range values {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}

	fmt.Fprintln(p.writer)
	return nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isJSON(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	b, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}

	// Multipart uploads and other binary payloads would garble the terminal.
	if !utf8.Valid(b) {
		return p.printBinaryNote(len(b))
	}

	if !isJSON(contentType) {
		return p.plain.PrintBody(bytes.NewReader(b), contentType)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "    "); err != nil {
		// Not valid JSON after all; show it as it is.
		return p.plain.PrintBody(bytes.NewReader(b), contentType)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(p.writer); err != nil {
		return errors.Wrap(err, "printing JSON body")
	}
	return nil
}

func (p *PrettyPrinter) printBinaryNote(size int) error {
	note := fmt.Sprintf("NOTE: binary data not shown in terminal (%s)", bytefmt.ByteSize(uint64(size)))
	border := "+" + strings.Repeat("-", len(note)+2) + "+"
	fmt.Fprintf(p.writer, "%s\n%s\n%s\n",
		p.aurora.Colorize(border, p.headerPalette.Note),
		p.aurora.Colorize("| "+note+" |", p.headerPalette.Note),
		p.aurora.Colorize(border, p.headerPalette.Note))
	return nil
}
