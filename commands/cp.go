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
	"github.com/containerd/xattrshim/conterrors"
	"github.com/containerd/xattrshim/fsdriver"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cpCmdConfig struct {
		excludes []string
		strict   bool
	}

	CPCmd = &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy all extended attributes from one file to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mainCmdConfig.fd {
				return errors.Wrap(conterrors.ErrNotSupported, "--fd with cp")
			}
			for _, p := range args {
				if _, err := fsdriver.BasicDriver.Lstat(p); err != nil {
					return err
				}
			}

			opts := []fsdriver.CopyOpt{fsdriver.WithXAttrExclude(cpCmdConfig.excludes...)}
			if !cpCmdConfig.strict {
				// Attributes outside the user namespace usually need
				// privileges; report them and carry on.
				opts = append(opts, fsdriver.WithXAttrErrorHandler(func(dst, src, key string, err error) error {
					if key == "" {
						return err
					}
					logrus.WithError(err).WithField("xattr", key).Warnf("skipping attribute of %s", src)
					return nil
				}))
			}
			if err := fsdriver.CopyXAttrs(args[1], args[0], opts...); err != nil {
				return errors.Wrapf(err, "failed to copy attributes from %s to %s", args[0], args[1])
			}
			return nil
		},
	}
)

func init() {
	CPCmd.Flags().StringSliceVar(&cpCmdConfig.excludes, "exclude", nil, "attribute names to leave out")
	CPCmd.Flags().BoolVar(&cpCmdConfig.strict, "strict", false, "fail on the first attribute that cannot be copied")
}
