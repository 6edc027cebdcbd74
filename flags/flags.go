package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/HexmosTech/formie/exchange"
	"github.com/HexmosTech/formie/input"
	"github.com/HexmosTech/formie/output"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	Verbose         bool
	PrintVersion    bool
	PrintLicenses   bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

// Parse parses command line flags. It returns the positional arguments and a
// function printing usage.
func Parse(args []string) ([]string, func(w io.Writer), *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, terminal terminalInfo) ([]string, func(w io.Writer), *OptionSet, error) {
	inputOptions := input.Options{}
	exchangeOptions := exchange.Options{}
	outputOptions := output.Options{}
	optionSet := &OptionSet{}
	var ignoreStdin bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	timeout := "30s"
	verifyFlag := "yes"
	authFlag := ""

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&inputOptions.Form, "form", 'f', "serialize body as a form (default)")
	flagSet.BoolVarLong(&inputOptions.JSON, "json", 'j', "serialize body in application/json")
	flagSet.StringVarLong(&inputOptions.ParamsFile, "params", 0, "read body parameters from a YAML or JSON document", "FILE")
	flagSet.BoolVarLong(&exchangeOptions.DetectMimeType, "detect-mime-type", 0, "guess Content-Type of uploaded files from their extension")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.StringVarLong(&timeout, "timeout", 0, "Timeout seconds that you allow the whole operation to take")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "basic auth credentials", "USER[:PASS]")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow 30x Location redirects")
	flagSet.StringVarLong(&verifyFlag, "verify", 0, "verify TLS certificates (yes/no)")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1")
	flagSet.BoolVarLong(&optionSet.Verbose, "verbose", 'v', "log debug information to stderr")
	flagSet.BoolVarLong(&optionSet.PrintVersion, "version", 0, "print version and exit")
	flagSet.BoolVarLong(&optionSet.PrintLicenses, "licenses", 0, "print licenses of dependencies and exit")
	if err := flagSet.Getopt(args, nil); err != nil {
		u := input.UsageError(err.Error())
		return nil, flagSet.PrintUsage, nil, errors.WithStack(&u)
	}

	// Check stdin
	if !ignoreStdin && !terminal.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, terminal, &outputOptions); err != nil {
		return nil, nil, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --verify
	switch strings.ToLower(verifyFlag) {
	case "yes", "true":
		exchangeOptions.SkipVerify = false
	case "no", "false":
		exchangeOptions.SkipVerify = true
	default:
		return nil, nil, nil, errors.Errorf("Value of --verify must be yes or no: %s", verifyFlag)
	}

	// Parse --auth
	if authFlag != "" {
		auth, err := parseAuth(authFlag)
		if err != nil {
			return nil, nil, nil, err
		}
		exchangeOptions.Auth = auth
	}

	// Color
	outputOptions.EnableColor = terminal.stdoutIsTerminal
	outputOptions.EnableFormat = terminal.stdoutIsTerminal

	optionSet.InputOptions = inputOptions
	optionSet.ExchangeOptions = exchangeOptions
	optionSet.OutputOptions = outputOptions
	return flagSet.Args(), flagSet.PrintUsage, optionSet, nil
}

func parsePrintFlag(printFlag string, terminal terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if terminal.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
	} else {
		for _, c := range printFlag {
			switch c {
			case 'H':
				outputOptions.PrintRequestHeader = true
			case 'B':
				outputOptions.PrintRequestBody = true
			case 'h':
				outputOptions.PrintResponseHeader = true
			case 'b':
				outputOptions.PrintResponseBody = true
			default:
				return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
			}
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(authFlag string) (exchange.AuthOptions, error) {
	userName, password, hasPassword := strings.Cut(authFlag, ":")
	if userName == "" {
		return exchange.AuthOptions{}, errors.New("user name of --auth must not be empty")
	}
	if !hasPassword {
		p, err := askPassword()
		if err != nil {
			return exchange.AuthOptions{}, err
		}
		password = p
	}
	return exchange.AuthOptions{
		Enabled:  true,
		UserName: userName,
		Password: password,
	}, nil
}
