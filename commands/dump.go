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

	"github.com/containerd/xattrshim/conterrors"
	"github.com/containerd/xattrshim/fsdriver"
	digest "github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	dumpCmdConfig struct {
		match bool
		jobs  int
	}

	DumpCmd = &cobra.Command{
		Use:   "dump <path>...",
		Short: "Print a digest of the extended attributes of each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := fsdriver.NewSystemDriver(fsdriver.Basic)
			if err != nil {
				return err
			}
			get := func(p string) (map[string][]byte, error) {
				if _, err := driver.Lstat(p); err != nil {
					return nil, err
				}
				switch {
				case mainCmdConfig.fd:
					fxd, ok := driver.(fsdriver.FXAttrDriver)
					if !ok {
						return nil, errors.Wrap(conterrors.ErrNotSupported, "descriptor attribute access")
					}
					f, err := driver.Open(p)
					if err != nil {
						return nil, err
					}
					defer f.Close()
					return fxd.FGetxattr(f)
				case mainCmdConfig.noFollow:
					lxd, ok := driver.(fsdriver.LXAttrDriver)
					if !ok {
						return nil, errors.Wrap(conterrors.ErrNotSupported, "no-follow attribute access")
					}
					return lxd.LGetxattr(p)
				}
				xd, ok := driver.(fsdriver.XAttrDriver)
				if !ok {
					return nil, errors.Wrap(conterrors.ErrNotSupported, "attribute access")
				}
				return xd.Getxattr(p)
			}

			digests := make([]digest.Digest, len(args))
			counts := make([]int, len(args))

			var g errgroup.Group
			if dumpCmdConfig.jobs > 0 {
				g.SetLimit(dumpCmdConfig.jobs)
			}
			for i, p := range args {
				i, p := i, p
				g.Go(func() error {
					attrs, err := get(p)
					if err != nil {
						return errors.Wrapf(err, "failed to read attributes of %s", p)
					}
					digests[i] = digestXAttrs(attrs)
					counts[i] = len(attrs)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, p := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d  %s\n", digests[i], counts[i], p)
			}
			if dumpCmdConfig.match && !digestsMatch(digests...) {
				return errors.New("attribute sets differ")
			}
			return nil
		},
	}
)

func init() {
	DumpCmd.Flags().BoolVar(&dumpCmdConfig.match, "match", false, "fail unless every path carries the same attributes")
	DumpCmd.Flags().IntVar(&dumpCmdConfig.jobs, "jobs", 4, "number of paths read at once")
}
