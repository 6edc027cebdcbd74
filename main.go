package formie

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/HexmosTech/formie/exchange"
	"github.com/HexmosTech/formie/flags"
	"github.com/HexmosTech/formie/input"
	"github.com/HexmosTech/formie/output"
	"github.com/HexmosTech/formie/version"
	"github.com/pkg/errors"
)

func Main() error {
	// Parse flags
	args, usage, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		if _, ok := errors.Cause(err).(*input.UsageError); ok && usage != nil {
			usage(os.Stderr)
		}
		return err
	}
	configureLogger(os.Stderr, optionSet.Verbose)

	inputOptions := optionSet.InputOptions
	exchangeOptions := optionSet.ExchangeOptions
	outputOptions := optionSet.OutputOptions

	// Print version
	if optionSet.PrintVersion {
		fmt.Printf("formie %s\n", version.Current())
		return nil
	}

	// Print licenses
	if optionSet.PrintLicenses {
		version.PrintLicenses(os.Stdout)
		return nil
	}

	// Parse positional arguments
	in, err := input.ParseArgs(args, os.Stdin, &inputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		usage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	// Send request and receive response
	_, err = Exchange(os.Stdout, in, &exchangeOptions, &outputOptions)
	return err
}

func configureLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Exchange builds the request described by in, sends it and prints to w what
// outputOptions selects. It returns the response status code.
func Exchange(w io.Writer, in *input.Input, exchangeOptions *exchange.Options, outputOptions *output.Options) (int, error) {
	// Prepare printer
	writer := bufio.NewWriter(w)
	defer writer.Flush()
	printer := newPrinter(writer, outputOptions)

	// Build HTTP request
	request, err := exchange.BuildHTTPRequest(in, exchangeOptions)
	if err != nil {
		return -1, err
	}

	// Print HTTP request
	if outputOptions.PrintRequestHeader || outputOptions.PrintRequestBody {
		if err := printRequest(printer, writer, request, outputOptions); err != nil {
			return -1, err
		}
		writer.Flush()
	}

	// Send HTTP request and receive HTTP response
	response, err := exchange.SendRequest(request, exchangeOptions)
	if err != nil {
		return -1, errors.Wrap(err, "sending HTTP request")
	}
	defer response.Body.Close()

	// Print HTTP response
	if outputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(response.Proto, response.Status, response.StatusCode); err != nil {
			return -1, err
		}
		if err := printer.PrintHeader(response.Header); err != nil {
			return -1, err
		}
		writer.Flush()
	}
	if outputOptions.PrintResponseBody {
		if err := printer.PrintBody(response.Body, response.Header.Get("Content-Type")); err != nil {
			return -1, err
		}
	}

	return response.StatusCode, nil
}

func newPrinter(w io.Writer, outputOptions *output.Options) output.Printer {
	if outputOptions.EnableFormat {
		return output.NewPrettyPrinter(output.PrettyPrinterConfig{
			Writer:      w,
			EnableColor: outputOptions.EnableColor,
		})
	}
	return output.NewPlainPrinter(w)
}

func printRequest(printer output.Printer, w io.Writer, request *http.Request, outputOptions *output.Options) error {
	if outputOptions.PrintRequestHeader {
		if err := printer.PrintRequestLine(request); err != nil {
			return err
		}
		if err := printer.PrintHeader(request.Header); err != nil {
			return err
		}
	}
	if outputOptions.PrintRequestBody && request.GetBody != nil {
		body, err := request.GetBody()
		if err != nil {
			return errors.Wrap(err, "reading request body")
		}
		defer body.Close()
		if err := printer.PrintBody(body, request.Header.Get("Content-Type")); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
