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

package fsdriver

import (
	"os"
)

// basicDriver is a simple default implementation that sends calls out to the "os"
// package and to the xattrshim attribute calls.
type basicDriver struct{}

var (
	_ Driver       = &basicDriver{}
	_ XAttrDriver  = &basicDriver{}
	_ LXAttrDriver = &basicDriver{}
	_ FXAttrDriver = &basicDriver{}
)

func (*basicDriver) Open(p string) (File, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (*basicDriver) Lstat(p string) (os.FileInfo, error) {
	return os.Lstat(p)
}
