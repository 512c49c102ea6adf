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
	"github.com/spf13/cobra"
)

var RMCmd = &cobra.Command{
	Use:   "rm <path> <name>...",
	Short: "Remove extended attributes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTarget(args[0])
		if err != nil {
			return err
		}
		defer t.Close()

		for _, n := range args[1:] {
			name, err := cname(n)
			if err != nil {
				return err
			}
			if t.remove(name) < 0 {
				return t.callError("removexattr", n)
			}
		}
		return nil
	},
}
