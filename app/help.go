package app

import "fmt"

func helpText() string {
	return fmt.Sprintf(`NAME
   {{.Name}} - {{.Usage}}

USAGE
   {{.HelpName}} {{.UsageText}}

VERSION
   %s

COMMANDS
{{range .Commands}}{{if not .HideHelp}}   {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}
OPTIONS
   {{range .VisibleFlags}}{{.}}
   {{end}}
DOCUMENTATION
  https://github.com/focusflow/flowtrack/wiki
`, "{{.Version}}")
}
