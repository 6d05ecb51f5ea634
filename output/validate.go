package output

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/German-BioImaging/omero-rdf/errors"
)

// extensions maps each format name to the file extensions it is normally
// written to. The first entry is the suggested one.
var extensions = map[string][]string{
	"ntriples": {"nt", "ntriples"},
	"turtle":   {"ttl", "turtle"},
	"jsonld":   {"json", "jsonld"},
	"ro-crate": {"json", "jsonld"},
}

// CheckExtension warns when the destination's file extension disagrees with
// the chosen format and asks for confirmation on the given prompt streams.
// assumeYes skips the prompt; declining aborts before any output is written.
func CheckExtension(dest, formatName string, assumeYes bool,
	in io.Reader, out io.Writer, logger *slog.Logger) error {

	if logger == nil {
		logger = slog.Default()
	}
	if dest == "" || dest == "-" {
		return nil
	}

	name := strings.TrimSuffix(dest, ".gz")
	ext := strings.TrimPrefix(filepath.Ext(name), ".")

	accepted := extensions[formatName]
	for _, a := range accepted {
		if ext == a {
			return nil
		}
	}

	logger.Warn("file extension does not match the output format",
		"destination", dest, "format", formatName, "suggested", suggested(formatName))
	if assumeYes {
		return nil
	}

	fmt.Fprint(out, "Continue anyway? [y/N]: ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "output", "CheckExtension", "reading confirmation")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errors.Wrap(errors.ErrAborted, "output", "CheckExtension", "confirmation")
	}
}

func suggested(formatName string) string {
	if accepted, ok := extensions[formatName]; ok {
		return "." + accepted[0]
	}
	return ""
}
