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
	"github.com/containerd/xattrshim/sysx"
	"github.com/spf13/cobra"
)

var (
	setCmdConfig struct {
		create  bool
		replace bool
	}

	SetCmd = &cobra.Command{
		Use:   "set <path> <name> <value>",
		Short: "Set the value of an extended attribute",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags sysx.XattrFlags
			if setCmdConfig.create {
				flags |= sysx.XattrCreate
			}
			if setCmdConfig.replace {
				flags |= sysx.XattrReplace
			}

			t, err := openTarget(args[0])
			if err != nil {
				return err
			}
			defer t.Close()

			name, err := cname(args[1])
			if err != nil {
				return err
			}
			if t.set(name, []byte(args[2]), flags) < 0 {
				return t.callError("setxattr", args[1])
			}
			return nil
		},
	}
)

func init() {
	SetCmd.Flags().BoolVar(&setCmdConfig.create, "create", false, "fail if the attribute already exists")
	SetCmd.Flags().BoolVar(&setCmdConfig.replace, "replace", false, "fail if the attribute does not exist")
}
