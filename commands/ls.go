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
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	digest "github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

var LSCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List the extended attributes of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTarget(args[0])
		if err != nil {
			return err
		}
		defer t.Close()

		names, err := t.names()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		for _, name := range names {
			value, err := t.value(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%v\t%v\t%v\n", name, humanize.Bytes(uint64(len(value))), digest.FromBytes(value))
		}

		return w.Flush()
	},
}
