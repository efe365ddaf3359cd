package cli

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voughtdq/ex-doc/internal/ui/pretty"
)

// flagLine splits a pflag usage line into indent, flag names, gap and description.
var flagLine = regexp.MustCompile(`^(\s+)(-\S.*?)(\s{2,})(\S.*)$`)

// commandLine splits an "Available Commands" entry into indent, name, gap and summary.
var commandLine = regexp.MustCompile(`^(\s+)(\S+)(\s+)(.*)$`)

// HelpFormatter colors Cobra's help output with the same palette as the
// tree view. The text itself is Cobra's; only styling is added.
type HelpFormatter struct {
	styles *pretty.Styles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer)),
	}
}

// ApplyToCommand installs the formatter on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	base := cmd.HelpFunc()

	cmd.SetHelpFunc(func(command *cobra.Command, args []string) {
		out := command.OutOrStdout()

		var buf bytes.Buffer
		command.SetOut(&buf)
		base(command, args)
		command.SetOut(out)

		if _, err := io.WriteString(out, h.Style(buf.String())); err != nil {
			command.PrintErrln(err)
		}
	})
}

// Style colors rendered help text line by line.
func (h *HelpFormatter) Style(help string) string {
	lines := strings.Split(help, "\n")
	section := ""

	for i, line := range lines {
		switch {
		case line == "":
		case !strings.HasPrefix(line, " ") && strings.HasSuffix(line, ":"):
			section = strings.TrimSuffix(line, ":")
			lines[i] = h.styles.SummaryTitle.Render(line)
		case section == "Usage":
			lines[i] = h.styles.FilePath.Render(line)
		case section == "Aliases":
			lines[i] = h.styles.Dim.Render(line)
		case section == "Examples":
			lines[i] = h.styles.Comment.Render(line)
		case strings.HasSuffix(section, "Flags"):
			lines[i] = h.styleFlag(line)
		case section == "Available Commands" || section == "Additional help topics":
			lines[i] = h.styleCommand(line)
		}
	}

	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) styleFlag(line string) string {
	m := flagLine.FindStringSubmatch(line)
	if m == nil {
		return line
	}

	tokens := strings.Fields(m[2])
	for i, token := range tokens {
		if name, ok := strings.CutSuffix(token, ","); ok && strings.HasPrefix(name, "-") {
			tokens[i] = h.styles.AttrName.Render(name) + ","
			continue
		}
		if strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.AttrName.Render(token)
			continue
		}
		tokens[i] = h.styles.Dim.Render(token)
	}

	return m[1] + strings.Join(tokens, " ") + m[3] + h.styles.Message.Render(m[4])
}

func (h *HelpFormatter) styleCommand(line string) string {
	m := commandLine.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	return m[1] + h.styles.Tag.Render(m[2]) + m[3] + h.styles.Message.Render(m[4])
}
