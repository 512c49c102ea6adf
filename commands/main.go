/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"github.com/containerd/xattrshim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	MainCmd = &cobra.Command{
		Use:               "xattrshim <command>",
		Short:             "Inspect and edit extended attributes through the xattr shim.",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	mainCmdConfig struct {
		debug    bool
		noFollow bool
		fd       bool
	}

	// shim serves every attribute call the commands make; errno holds the
	// error number of the last failed one.
	shim  *xattrshim.Shim
	errno = &xattrshim.LastErrno{}

	// usageTemplate is nearly identical to the default template without the
	// automatic addition of flags. Instead, Command.Use is used unmodified.
	usageTemplate = `{{ $cmd := . }}
Usage: {{if .Runnable}}
  {{.UseLine}}{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}
{{end}}{{if .HasExample}}

Examples:
{{ .Example }}{{end}}{{ if .HasAvailableSubCommands}}

Available Commands: {{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{ if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages}}{{end}}{{ if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages}}{{end}}{{ if .HasAvailableSubCommands }}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`
)

func init() {
	MainCmd.PersistentFlags().BoolVar(&mainCmdConfig.debug, "debug", false, "log every attribute call")
	MainCmd.PersistentFlags().BoolVar(&mainCmdConfig.noFollow, "no-follow", false, "do not follow a trailing symbolic link")
	MainCmd.PersistentFlags().BoolVar(&mainCmdConfig.fd, "fd", false, "open the file and operate on its descriptor")

	MainCmd.AddCommand(GetCmd)
	MainCmd.AddCommand(SetCmd)
	MainCmd.AddCommand(LSCmd)
	MainCmd.AddCommand(RMCmd)
	MainCmd.AddCommand(CPCmd)
	MainCmd.AddCommand(DumpCmd)
	MainCmd.SetUsageTemplate(usageTemplate)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := xattrshim.LoadConfig()
	if err != nil {
		logrus.WithError(err).Warn("invalid configuration, using defaults")
		cfg = xattrshim.DefaultConfig()
	}
	if mainCmdConfig.debug {
		cfg.LogLevel = logrus.DebugLevel.String()
		logrus.SetLevel(logrus.DebugLevel)
	}
	shim = xattrshim.New(cfg, xattrshim.WithErrnoRecorder(errno))
	return nil
}
